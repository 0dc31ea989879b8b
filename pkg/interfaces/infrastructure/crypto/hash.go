package crypto

// DigestSize 内容哈希输出长度
const DigestSize = 32

// HashManager 定义内容哈希能力
type HashManager interface {
	// ContentHash 计算地址推导和消息摘要使用的内容哈希
	ContentHash(data []byte) [DigestSize]byte
}
