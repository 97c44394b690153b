package service

import "errors"

// Sentinel errors the handlers translate into HTTP statuses. The texts
// double as the user-facing message prefix, so they stay in Portuguese
// like the rest of the wire format.
var (
	ErrMalformedInput     = errors.New("dados incompletos ou formato inválido") // 400
	ErrInvalidQuantity    = errors.New("quantidade inválida")                   // 400
	ErrProductNotFound    = errors.New("produto não encontrado")                // 404
	ErrProductUnavailable = errors.New("produto indisponível")                  // 400
	ErrInvalidTotal       = errors.New("o valor total do pedido deve ser positivo") // 400
	ErrInvalidStatus      = errors.New("status inválido")                       // 400
	ErrValidation         = errors.New("dados inválidos")                       // 400
	ErrNotFound           = errors.New("não encontrado")                        // 404
	ErrConflict           = errors.New("conflito de integridade")               // 409
)
