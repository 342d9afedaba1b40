package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/taller-api/pkg/jwt"
)

const secret = "test-secret"

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "cajero", "idp", 60)
	require.NoError(t, err)

	claims, err := pkgjwt.Parse(secret, "idp", tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "cajero", claims.Role)
}

func TestParse_Rechazos(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, "u-1", "", "idp", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", "", tok)
	assert.Error(t, err, "firma incorrecta")

	_, err = pkgjwt.Parse(secret, "otro-emisor", tok)
	assert.Error(t, err, "emisor distinto")

	expired, err := pkgjwt.Generate(secret, "u-1", "", "idp", -5)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, "", expired)
	assert.Error(t, err, "vencido")

	_, err = pkgjwt.Parse("", "", tok)
	assert.Error(t, err)
}
