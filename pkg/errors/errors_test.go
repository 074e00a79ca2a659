package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAsUnwrapsNestedTypedError(t *testing.T) {
	inner := New(CodeBackendRejected, "invalid date")
	wrapped := fmt.Errorf("saving order: %w", inner)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeBackendRejected, typed.Code())
	assert.Equal(t, "invalid date", typed.Message())
}

func TestUserMessageShowsBackendRejection(t *testing.T) {
	err := New(CodeBackendRejected, "E-mail já cadastrado.")
	assert.Equal(t, "E-mail já cadastrado.", UserMessage(err))
}

func TestUserMessageHidesTransportCause(t *testing.T) {
	cause := stdErrors.New("dial tcp 10.0.0.1:8080: connection refused")
	err := Wrap(CodeBackendUnreachable, cause, cause.Error())

	msg := UserMessage(err)
	assert.Equal(t, "Erro ao conectar com o servidor. Tente novamente.", msg)
	assert.NotContains(t, msg, "dial tcp")
}

func TestUserMessageFallsBackForUnknownErrors(t *testing.T) {
	assert.Equal(t,
		MetadataFor(CodeInternal).PublicMessage,
		UserMessage(stdErrors.New("boom")))
}

func TestMetadataForUnknownCodeIsInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestChainKeepsEveryCause(t *testing.T) {
	root := stdErrors.New("connection reset")
	err := Wrap(CodeBackendUnreachable, root, "upload contract")

	chain := Chain(err)
	require.Len(t, chain, 2)
	assert.Contains(t, chain[0], "BACKEND_UNREACHABLE")
	assert.Equal(t, "connection reset", chain[1])
}
