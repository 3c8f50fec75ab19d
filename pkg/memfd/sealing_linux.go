package memfd

import (
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

// Seal 表示一种可以施加在 memfd 上的密封，取值直接对应内核的密封标志位
type Seal int

// 内核定义的四种密封：
// SealSeal: 禁止进一步修改密封集合
// SealShrink: 禁止缩小文件
// SealGrow: 禁止增长文件
// SealWrite: 禁止写入
const (
	SealSeal   Seal = unix.F_SEAL_SEAL
	SealShrink Seal = unix.F_SEAL_SHRINK
	SealGrow   Seal = unix.F_SEAL_GROW
	SealWrite  Seal = unix.F_SEAL_WRITE
)

// allSeals 按标志位从低到高列出全部已知密封，decode 时据此过滤未知位
var allSeals = []Seal{SealSeal, SealShrink, SealGrow, SealWrite}

// String 实现 Stringer 接口用于打印
func (s Seal) String() string {
	switch s {
	case SealSeal:
		return "SealSeal"
	case SealShrink:
		return "SealShrink"
	case SealGrow:
		return "SealGrow"
	case SealWrite:
		return "SealWrite"
	default:
		return fmt.Sprintf("Seal(%#x)", int(s))
	}
}

// SealSet 表示一组密封，插入顺序无关且不会重复
type SealSet map[Seal]struct{}

// NewSealSet 由给定的密封构造一个集合
func NewSealSet(seals ...Seal) SealSet {
	s := make(SealSet, len(seals))
	for _, seal := range seals {
		s[seal] = struct{}{}
	}
	return s
}

// Add 向集合中加入一个密封
func (s SealSet) Add(seal Seal) {
	s[seal] = struct{}{}
}

// Has 判断集合中是否包含指定密封
func (s SealSet) Has(seal Seal) bool {
	_, ok := s[seal]
	return ok
}

// String 实现 Stringer 接口，按标志位顺序输出集合内容
func (s SealSet) String() string {
	names := make([]string, 0, len(s))
	for _, seal := range allSeals {
		if s.Has(seal) {
			names = append(names, seal.String())
		}
	}
	return "[" + strings.Join(names, " ") + "]"
}

// sealsToBitflags 将密封集合编码为内核位掩码，空集合编码为 0
func sealsToBitflags(seals SealSet) int {
	bits := 0
	for seal := range seals {
		bits |= int(seal)
	}
	return bits
}

// bitflagsToSeals 将内核位掩码解码为密封集合
// 只识别四种已知密封位，未知位直接忽略（向前兼容，不视为错误）
func bitflagsToSeals(bits int) SealSet {
	s := make(SealSet)
	for _, seal := range allSeals {
		if bits&int(seal) != 0 {
			s.Add(seal)
		}
	}
	return s
}
