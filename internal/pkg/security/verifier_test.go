package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifierChain(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	// PHP password_hash 生成的是 $2y$ 前缀
	phpHash := "$2y$" + strings.TrimPrefix(hash, "$2a$")

	tests := []struct {
		name           string
		allowPlaintext bool
		password       string
		stored         string
		wantOK         bool
		wantStrategy   string
	}{
		{"bcrypt 正确口令", true, "s3cret", hash, true, "bcrypt"},
		{"bcrypt 错误口令", true, "wrong", hash, false, "bcrypt"},
		{"PHP $2y$ 哈希", true, "s3cret", phpHash, true, "bcrypt"},
		{"明文口令", true, "admin123", "admin123", true, "plaintext"},
		{"明文口令不匹配", true, "admin12", "admin123", false, "plaintext"},
		{"关闭明文兼容", false, "admin123", "admin123", false, ""},
		{"哈希值不会被当作明文比较", true, hash, hash, false, "bcrypt"},
		{"空存储值", true, "", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, strategy := NewVerifierChain(tt.allowPlaintext).Verify(tt.password, tt.stored)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantStrategy, strategy)
		})
	}
}

func TestIsBcryptHash(t *testing.T) {
	assert.True(t, IsBcryptHash("$2a$10$abc"))
	assert.True(t, IsBcryptHash("$2b$10$abc"))
	assert.True(t, IsBcryptHash("$2y$10$abc"))
	assert.False(t, IsBcryptHash("plain"))
	assert.False(t, IsBcryptHash("$1$md5"))
}
