// Package docs registers the OpenAPI document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
	"schemes": {{ marshal .Schemes }},
	"swagger": "2.0",
	"info": {
		"description": "{{escape .Description}}",
		"title": "{{.Title}}",
		"contact": {},
		"version": "{{.Version}}"
	},
	"host": "{{.Host}}",
	"basePath": "{{.BasePath}}",
	"paths": {
		"/v1/token": {
			"get": {
				"summary": "Token metadata and total supply",
				"tags": [
					"token"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/token/balances/{address}": {
			"get": {
				"summary": "Token balance",
				"tags": [
					"token"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "address",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/token/transfers": {
			"post": {
				"summary": "Transfer tokens",
				"tags": [
					"token"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "acting address",
						"name": "X-Caller-Address",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/TransferRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/token/transfers/delegated": {
			"post": {
				"summary": "Transfer tokens from an approved owner",
				"tags": [
					"token"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "acting address",
						"name": "X-Caller-Address",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/TransferFromRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/token/approvals": {
			"post": {
				"summary": "Approve a spender",
				"tags": [
					"token"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "acting address",
						"name": "X-Caller-Address",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/ApproveRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/token/allowances/{owner}/{spender}": {
			"get": {
				"summary": "Allowance",
				"tags": [
					"token"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "owner",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "spender",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/token/purchases": {
			"post": {
				"summary": "Buy tokens at the exchange rate",
				"tags": [
					"token"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "acting address",
						"name": "X-Caller-Address",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/PurchaseRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"402": {
						"description": "Payment required",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/faucet": {
			"get": {
				"summary": "Faucet claim amount and balance",
				"tags": [
					"faucet"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/faucet/claims/{address}": {
			"get": {
				"summary": "Whether an address has claimed",
				"tags": [
					"faucet"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "address",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/faucet/claims": {
			"post": {
				"summary": "Claim faucet tokens once",
				"tags": [
					"faucet"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "acting address",
						"name": "X-Caller-Address",
						"in": "header",
						"required": true
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"409": {
						"description": "Already claimed",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"422": {
						"description": "Faucet depleted",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"429": {
						"description": "Rate limited",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/treasury": {
			"get": {
				"summary": "Treasury balance and owner",
				"tags": [
					"treasury"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/treasury/withdrawals": {
			"post": {
				"summary": "Withdraw treasury funds",
				"tags": [
					"treasury"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "acting address",
						"name": "X-Caller-Address",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/WithdrawRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"403": {
						"description": "Not the owner",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/governance/params": {
			"get": {
				"summary": "Governance constants",
				"tags": [
					"governance"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/governance/treasury": {
			"put": {
				"summary": "Link the treasury",
				"tags": [
					"governance"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "acting address",
						"name": "X-Caller-Address",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/SetTreasuryRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"403": {
						"description": "Not the owner",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"409": {
						"description": "Treasury locked",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/governance/proposals": {
			"get": {
				"summary": "List proposals",
				"tags": [
					"governance"
				],
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			},
			"post": {
				"summary": "Create a proposal",
				"tags": [
					"governance"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"description": "acting address",
						"name": "X-Caller-Address",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/CreateProposalRequest"
						}
					}
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"402": {
						"description": "Fee required",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					},
					"422": {
						"description": "Insufficient tokens",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/governance/proposals/{id}": {
			"get": {
				"summary": "Proposal with status",
				"tags": [
					"governance"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"404": {
						"description": "Unknown proposal",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/governance/proposals/{id}/status": {
			"get": {
				"summary": "Proposal status",
				"tags": [
					"governance"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/governance/proposals/{id}/votes": {
			"post": {
				"summary": "Vote on a proposal",
				"tags": [
					"governance"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "acting address",
						"name": "X-Caller-Address",
						"in": "header",
						"required": true
					},
					{
						"name": "body",
						"in": "body",
						"required": true,
						"schema": {
							"$ref": "#/definitions/VoteRequest"
						}
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"409": {
						"description": "Already voted or voting closed",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		},
		"/v1/governance/proposals/{id}/votes/{address}": {
			"get": {
				"summary": "Vote record of an address",
				"tags": [
					"governance"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"name": "address",
						"in": "path",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/v1/governance/proposals/{id}/execution": {
			"post": {
				"summary": "Execute a passed proposal",
				"tags": [
					"governance"
				],
				"produces": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"type": "string",
						"description": "acting address",
						"name": "X-Caller-Address",
						"in": "header",
						"required": true
					}
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"409": {
						"description": "Not executable",
						"schema": {
							"$ref": "#/definitions/ErrorResponse"
						}
					}
				}
			}
		}
	},
	"definitions": {
		"ErrorResponse": {
			"type": "object",
			"properties": {
				"code": {
					"type": "string"
				},
				"message": {
					"type": "string"
				}
			}
		},
		"TransferRequest": {
			"type": "object",
			"properties": {
				"to": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"TransferFromRequest": {
			"type": "object",
			"properties": {
				"from": {
					"type": "string"
				},
				"to": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"ApproveRequest": {
			"type": "object",
			"properties": {
				"spender": {
					"type": "string"
				},
				"amount": {
					"type": "string"
				}
			}
		},
		"PurchaseRequest": {
			"type": "object",
			"properties": {
				"value_wei": {
					"type": "string"
				}
			}
		},
		"WithdrawRequest": {
			"type": "object",
			"properties": {
				"to": {
					"type": "string"
				},
				"amount_wei": {
					"type": "string"
				}
			}
		},
		"SetTreasuryRequest": {
			"type": "object",
			"properties": {
				"treasury": {
					"type": "string"
				}
			}
		},
		"CreateProposalRequest": {
			"type": "object",
			"properties": {
				"description": {
					"type": "string"
				},
				"value_wei": {
					"type": "string"
				}
			}
		},
		"VoteRequest": {
			"type": "object",
			"required": [
				"support"
			],
			"properties": {
				"support": {
					"type": "boolean"
				}
			}
		}
	}
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "securevote API",
	Description:      "Token ledger, faucet, treasury and proposal voting for one governance deployment. Mutations act as the address in X-Caller-Address.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
