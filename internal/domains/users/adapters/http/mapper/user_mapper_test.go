package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	userdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

func TestFromDomainUser_OmitsHashAndNullsEmptyPhone(t *testing.T) {
	dto := FromDomainUser(&userdomain.User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: userdomain.RoleUser, PasswordHash: "$2a$10$hash"})
	payload, err := json.Marshal(dto)
	require.NoError(t, err)
	assert.NotContains(t, string(payload), "$2a$10$hash")
	assert.Contains(t, string(payload), `"phone":null`)
	assert.Contains(t, string(payload), `"role":"USER"`)
}
