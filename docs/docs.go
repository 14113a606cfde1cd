// Package docs регистрирует OpenAPI описание для swag и fiber-swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "API Support"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Проверка живости",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/api/v1/last-time": {
            "post": {
                "description": "Для каждого участка маршрута возвращает время последнего рейса и крайнее время выхода. Пешие и неразрешимые участки дают null, длина results совпадает с числом участков.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["LastTime"],
                "summary": "Последние рейсы по маршруту",
                "parameters": [
                    {
                        "description": "Маршрут от планировщика",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.LastTimeRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {
                            "allOf": [
                                {"$ref": "#/definitions/utils.SuccessResponse"},
                                {
                                    "type": "object",
                                    "properties": {
                                        "data": {"$ref": "#/definitions/dto.LastTimeResponse"}
                                    }
                                }
                            ]
                        }
                    },
                    "400": {
                        "description": "Bad Request",
                        "schema": {"$ref": "#/definitions/utils.ErrorResponse"}
                    },
                    "500": {
                        "description": "Internal Server Error",
                        "schema": {"$ref": "#/definitions/utils.ErrorResponse"}
                    }
                }
            }
        }
    },
    "definitions": {
        "domain.Coordinate": {
            "type": "object",
            "properties": {
                "lat": {"type": "number"},
                "lon": {"type": "number"}
            }
        },
        "domain.Station": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "name": {"type": "string"},
                "coordinate": {"$ref": "#/definitions/domain.Coordinate"}
            }
        },
        "domain.Place": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "coordinate": {"$ref": "#/definitions/domain.Coordinate"}
            }
        },
        "domain.Leg": {
            "type": "object",
            "required": ["mode"],
            "properties": {
                "mode": {"type": "string", "example": "BUS"},
                "start": {"$ref": "#/definitions/domain.Station"},
                "end": {"$ref": "#/definitions/domain.Place"},
                "route_info": {"type": "string", "example": "BUS:162"},
                "route_type": {"type": "integer"},
                "section_time": {"type": "integer", "example": 1800}
            }
        },
        "domain.Itinerary": {
            "type": "object",
            "required": ["legs"],
            "properties": {
                "legs": {"type": "array", "items": {"$ref": "#/definitions/domain.Leg"}}
            }
        },
        "domain.TransportStation": {
            "type": "object",
            "properties": {
                "station_name": {"type": "string"},
                "station_id": {"type": "string"}
            }
        },
        "domain.LastTimeResult": {
            "type": "object",
            "properties": {
                "mode": {"type": "string"},
                "area": {"type": "string", "example": "SEOUL"},
                "last_time": {"type": "string", "example": "23:30:00"},
                "time_to_board": {"type": "string", "example": "23:00:00"},
                "destination_station_name": {"type": "string"},
                "stations_until_start": {"type": "array", "items": {"$ref": "#/definitions/domain.TransportStation"}},
                "enable_destination_stations": {"type": "array", "items": {"$ref": "#/definitions/domain.TransportStation"}},
                "direction": {"type": "string", "example": "UNKNOWN"},
                "route_id": {"type": "string"},
                "term": {"type": "integer"}
            }
        },
        "dto.LastTimeRequest": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string", "format": "uuid"},
                "itinerary": {"$ref": "#/definitions/domain.Itinerary"}
            }
        },
        "dto.LastTimeResponse": {
            "type": "object",
            "properties": {
                "request_id": {"type": "string"},
                "results": {"type": "array", "items": {"$ref": "#/definitions/domain.LastTimeResult"}}
            }
        },
        "errors.AppError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {"type": "object", "additionalProperties": true}
            }
        },
        "utils.Meta": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "resolved": {"type": "integer"},
                "time_ms": {"type": "number"}
            }
        },
        "utils.SuccessResponse": {
            "type": "object",
            "properties": {
                "data": {},
                "meta": {"$ref": "#/definitions/utils.Meta"}
            }
        },
        "utils.ErrorResponse": {
            "type": "object",
            "properties": {
                "error": {"$ref": "#/definitions/errors.AppError"},
                "request_id": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "Last Time Service API",
	Description:      "Сервис расчёта последних рейсов общественного транспорта Сеула и Кёнгидо по маршруту от планировщика.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
