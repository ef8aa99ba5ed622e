package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func restore() {
	newProduction = zap.NewProduction
	newDevelopment = zap.NewDevelopment
}

func TestNew(t *testing.T) {
	t.Cleanup(restore)

	var used string
	newProduction = func(...zap.Option) (*zap.Logger, error) { used = "prod"; return zap.NewNop(), nil }
	newDevelopment = func(...zap.Option) (*zap.Logger, error) { used = "dev"; return zap.NewNop(), nil }

	log, err := New("api", false)
	require.NoError(t, err)
	require.NotNil(t, log)
	require.Equal(t, "prod", used)

	_, err = New("api", true)
	require.NoError(t, err)
	require.Equal(t, "dev", used)

	newProduction = func(...zap.Option) (*zap.Logger, error) { return nil, errors.New("sink") }
	_, err = New("api", false)
	require.ErrorContains(t, err, "build logger")
}
