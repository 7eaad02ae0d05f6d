package security

import "crypto/subtle"

// CredentialVerifier 是一种口令校验策略
type CredentialVerifier interface {
	// Name 用于日志
	Name() string
	// Applies 判断该策略能否处理这种存储格式
	Applies(stored string) bool
	Verify(password, stored string) bool
}

// BcryptVerifier 校验 bcrypt 哈希
type BcryptVerifier struct{}

func (BcryptVerifier) Name() string { return "bcrypt" }

func (BcryptVerifier) Applies(stored string) bool { return IsBcryptHash(stored) }

func (BcryptVerifier) Verify(password, stored string) bool {
	return CheckPasswordHash(password, stored)
}

// PlaintextVerifier 兼容历史遗留的明文口令，使用常量时间比较
type PlaintextVerifier struct{}

func (PlaintextVerifier) Name() string { return "plaintext" }

func (PlaintextVerifier) Applies(stored string) bool { return stored != "" }

func (PlaintextVerifier) Verify(password, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(password), []byte(stored)) == 1
}

// VerifierChain 按顺序选择第一个适用的策略，由它决定结果
type VerifierChain []CredentialVerifier

// NewVerifierChain 构造默认策略链；allowPlaintext 为 false 时不再接受明文口令
func NewVerifierChain(allowPlaintext bool) VerifierChain {
	chain := VerifierChain{BcryptVerifier{}}
	if allowPlaintext {
		chain = append(chain, PlaintextVerifier{})
	}
	return chain
}

// Verify 返回是否通过以及做出判断的策略名，没有适用策略时策略名为空
func (c VerifierChain) Verify(password, stored string) (bool, string) {
	for _, v := range c {
		if v.Applies(stored) {
			return v.Verify(password, stored), v.Name()
		}
	}
	return false, ""
}
