package utils

import (
	"crypto/rand"
	"math/big"
)

// 临时口令字符集，和注册密码的强度规则保持一致
const (
	secretUpper   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	secretLower   = "abcdefghijklmnopqrstuvwxyz"
	secretDigits  = "0123456789"
	secretSpecial = "@$!%*?&"

	TempSecretLen = 12
)

// NewTempSecret 生成 12 位临时口令：大写/小写/数字/符号各至少一个，
// 其余从全字符集均匀取，最后整体洗牌。全程 crypto/rand。
func NewTempSecret() (string, error) {
	all := secretUpper + secretLower + secretDigits + secretSpecial

	buf := make([]byte, 0, TempSecretLen)
	for _, set := range []string{secretUpper, secretLower, secretDigits, secretSpecial} {
		c, err := randByte(set)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}
	for len(buf) < TempSecretLen {
		c, err := randByte(all)
		if err != nil {
			return "", err
		}
		buf = append(buf, c)
	}

	// Fisher-Yates，避免前四位固定为「大写小写数字符号」的模式
	for i := len(buf) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		j := int(n.Int64())
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf), nil
}

func randByte(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}
