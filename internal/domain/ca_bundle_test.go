package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sufield/oidauth/internal/domain"
)

func TestCABundle_Clone(t *testing.T) {
	t.Parallel()

	t.Run("nil bundle clones to nil", func(t *testing.T) {
		t.Parallel()
		var b *domain.CABundle
		assert.Nil(t, b.Clone())
	})

	t.Run("clone does not alias original backing arrays", func(t *testing.T) {
		t.Parallel()

		// Arrange
		orig := &domain.CABundle{CACert: []byte("ca"), ServerCert: []byte("cert"), ServerKey: []byte("key")}

		// Act
		clone := orig.Clone()
		orig.CACert[0] = 'X'

		// Assert
		require.Equal(t, []byte("ca"), clone.CACert)
	})
}

func TestCABundle_HasCAAndValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bundle  *domain.CABundle
		hasCA   bool
		wantErr bool
	}{
		{name: "nil bundle", bundle: nil, hasCA: false, wantErr: true},
		{name: "empty bundle", bundle: &domain.CABundle{}, hasCA: false, wantErr: true},
		{name: "ca only", bundle: &domain.CABundle{CACert: []byte("ca")}, hasCA: true, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.hasCA, tt.bundle.HasCA())

			err := tt.bundle.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidCABundle)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
