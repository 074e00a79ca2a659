package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	// CodeValidation marks client-side precondition failures (missing field,
	// missing file, missing extracted draft). No network call was made.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeUnauthorized marks requests made without an active session.
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeNotFound     Code = "NOT_FOUND"
	// CodeBackendRejected marks an application-level rejection: the backend
	// answered with a non-success status and a structured message. The
	// message is user-visible.
	CodeBackendRejected Code = "BACKEND_REJECTED"
	// CodeBackendUnreachable marks a transport-level failure: the call itself
	// failed or the response body could not be decoded. Only the generic
	// public message is shown; the raw cause is logged.
	CodeBackendUnreachable Code = "BACKEND_UNREACHABLE"
	CodeInternal           Code = "INTERNAL_ERROR"
)

type Metadata struct {
	HTTPStatus int
	// PublicMessage is the fallback shown to the user when the error's own
	// message must not be exposed.
	PublicMessage string
	// MessageAllowed reports whether the error's own message may replace the
	// fallback in user-visible output.
	MessageAllowed bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:     http.StatusBadRequest,
		PublicMessage:  "Dados inválidos. Verifique os campos e tente novamente.",
		MessageAllowed: true,
	},
	CodeUnauthorized: {
		HTTPStatus:     http.StatusUnauthorized,
		PublicMessage:  "Você precisa estar logado para realizar esta ação.",
		MessageAllowed: true,
	},
	CodeNotFound: {
		HTTPStatus:     http.StatusNotFound,
		PublicMessage:  "Recurso não encontrado.",
		MessageAllowed: true,
	},
	CodeBackendRejected: {
		HTTPStatus:     http.StatusUnprocessableEntity,
		PublicMessage:  "A operação não pôde ser concluída.",
		MessageAllowed: true,
	},
	CodeBackendUnreachable: {
		HTTPStatus:     http.StatusBadGateway,
		PublicMessage:  "Erro ao conectar com o servidor. Tente novamente.",
		MessageAllowed: false,
	},
	CodeInternal: {
		HTTPStatus:     http.StatusInternalServerError,
		PublicMessage:  "Erro interno. Tente novamente mais tarde.",
		MessageAllowed: false,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// UserMessage resolves the text that may be rendered to the user for err:
// the typed message where the code allows it, the code's fallback otherwise.
func UserMessage(err error) string {
	typed := As(err)
	if typed == nil {
		typed = Wrap(CodeInternal, err, "unexpected error")
	}
	meta := MetadataFor(typed.Code())
	if meta.MessageAllowed && typed.Message() != "" {
		return typed.Message()
	}
	return meta.PublicMessage
}

// Chain flattens the cause chain into messages, outermost first.
func Chain(err error) []string {
	var chain []string
	for err != nil {
		chain = append(chain, err.Error())
		err = stdErrors.Unwrap(err)
	}
	return chain
}
