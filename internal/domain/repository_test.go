package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sufield/oidauth/internal/domain"
)

func TestRepository_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		repo    domain.Repository
		wantErr bool
	}{
		{name: "missing id", repo: domain.Repository{RelativePath: "repos/x"}, wantErr: true},
		{name: "missing relative path", repo: domain.Repository{ID: "repo-x"}, wantErr: true},
		{name: "valid", repo: domain.Repository{ID: "repo-x", RelativePath: "repos/x"}, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.repo.Validate()

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidRepository)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRepository_HasPerRepoAuth(t *testing.T) {
	t.Parallel()

	t.Run("nil bundle has no per-repo auth", func(t *testing.T) {
		t.Parallel()
		r := domain.Repository{ID: "repo-x"}
		assert.False(t, r.HasPerRepoAuth())
	})

	t.Run("bundle without CA has no per-repo auth", func(t *testing.T) {
		t.Parallel()
		r := domain.Repository{ID: "repo-x", ConsumerCertData: &domain.CABundle{}}
		assert.False(t, r.HasPerRepoAuth())
	})

	t.Run("bundle with CA enables per-repo auth", func(t *testing.T) {
		t.Parallel()
		r := domain.Repository{ID: "repo-x", ConsumerCertData: &domain.CABundle{CACert: []byte("pem")}}
		assert.True(t, r.HasPerRepoAuth())
	})
}

func TestRepository_NormalizedRelativePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "/repos/x", want: "repos/x"},
		{in: "repos/x", want: "repos/x"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		r := domain.Repository{RelativePath: tt.in}
		assert.Equal(t, tt.want, r.NormalizedRelativePath())
	}
}
