package memfd

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// HugetlbSize 表示 hugetlb 匿名文件的页大小
// 内核支持的十种固定页大小类别，零值 HugeNone 表示不启用 hugetlb
type HugetlbSize int

// 可选的 hugetlb 页大小
const (
	HugeNone HugetlbSize = iota // 不启用 hugetlb
	Huge64KB
	Huge512KB
	Huge1MB
	Huge2MB
	Huge8MB
	Huge16MB
	Huge256MB
	Huge1GB
	Huge2GB
	Huge16GB
)

// bitflags 返回该页大小对应的 memfd_create 标志位
// 每个类别与内核常量一一对应，本包不对页大小做任何数值运算
func (s HugetlbSize) bitflags() int {
	switch s {
	case Huge64KB:
		return unix.MFD_HUGE_64KB
	case Huge512KB:
		return unix.MFD_HUGE_512KB
	case Huge1MB:
		return unix.MFD_HUGE_1MB
	case Huge2MB:
		return unix.MFD_HUGE_2MB
	case Huge8MB:
		return unix.MFD_HUGE_8MB
	case Huge16MB:
		return unix.MFD_HUGE_16MB
	case Huge256MB:
		return unix.MFD_HUGE_256MB
	case Huge1GB:
		return unix.MFD_HUGE_1GB
	case Huge2GB:
		return unix.MFD_HUGE_2GB
	case Huge16GB:
		return unix.MFD_HUGE_16GB
	default:
		return 0
	}
}

// String 实现 Stringer 接口用于打印
func (s HugetlbSize) String() string {
	switch s {
	case HugeNone:
		return "none"
	case Huge64KB:
		return "64KB"
	case Huge512KB:
		return "512KB"
	case Huge1MB:
		return "1MB"
	case Huge2MB:
		return "2MB"
	case Huge8MB:
		return "8MB"
	case Huge16MB:
		return "16MB"
	case Huge256MB:
		return "256MB"
	case Huge1GB:
		return "1GB"
	case Huge2GB:
		return "2GB"
	case Huge16GB:
		return "16GB"
	default:
		return fmt.Sprintf("HugetlbSize(%d)", int(s))
	}
}

// hugetlbByBytes 按字节数索引十种页大小类别
var hugetlbByBytes = map[uint64]HugetlbSize{
	64 << 10:  Huge64KB,
	512 << 10: Huge512KB,
	1 << 20:   Huge1MB,
	2 << 20:   Huge2MB,
	8 << 20:   Huge8MB,
	16 << 20:  Huge16MB,
	256 << 20: Huge256MB,
	1 << 30:   Huge1GB,
	2 << 30:   Huge2GB,
	16 << 30:  Huge16GB,
}

// ParseHugetlbSize 从字符串解析页大小，例如 "64KB"、"2MB"、"1GB"
// 后缀大小写不敏感，结尾的 B 可以省略；不在十种类别之内的值返回错误
func ParseHugetlbSize(str string) (HugetlbSize, error) {
	orig := str
	str = strings.ToUpper(strings.TrimSpace(str))
	str = strings.TrimSuffix(str, "B")

	factor := 0
	switch {
	case strings.HasSuffix(str, "K"):
		factor = 10
		str = str[:len(str)-1]
	case strings.HasSuffix(str, "M"):
		factor = 20
		str = str[:len(str)-1]
	case strings.HasSuffix(str, "G"):
		factor = 30
		str = str[:len(str)-1]
	}

	t, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return HugeNone, fmt.Errorf("memfd: invalid hugetlb page size %q", orig)
	}
	size, ok := hugetlbByBytes[t<<factor]
	if !ok {
		return HugeNone, fmt.Errorf("memfd: unsupported hugetlb page size %q", orig)
	}
	return size, nil
}
