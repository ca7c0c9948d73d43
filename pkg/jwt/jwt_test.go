package jwt_test

import (
	"testing"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Produccion-api/pkg/jwt"
)

const secret = "clave-de-prueba"

func TestGenerateParse_ConservaUsuarioYRol(t *testing.T) {
	tok, err := jwt.Generate(secret, "u-7", jwt.RoleSupervisor, "produccion-api", 5)
	require.NoError(t, err)

	userID, role, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-7", userID)
	assert.Equal(t, jwt.RoleSupervisor, role)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "u-7", jwt.RoleAdmin, "produccion-api", 5)
	assert.Error(t, err)
}

func TestParse_RechazaFirmaNone(t *testing.T) {
	claims := jwt.Claims{UserID: "u-7", Role: jwt.RoleAdmin}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, _, err = jwt.Parse(secret, tok)
	assert.Error(t, err)
}
