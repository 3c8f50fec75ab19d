package memfd

import (
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

// Options 是 memfd 创建选项的不可变配置值
// 配置本身不持有任何描述符，可以重复用于创建多个相互独立的 memfd
type Options struct {
	allowSealing bool
	closeOnExec  bool
	hugetlb      HugetlbSize
}

// NewOptions 返回默认的创建选项
// 默认值为：
//   - 密封：不允许（内核会将 SealSeal 视为已生效，后续无法添加任何密封）
//   - close-on-exec：开启（执行 exec 时自动关闭描述符，避免泄漏给子进程）
//   - hugetlb：不启用
func NewOptions() Options {
	return Options{closeOnExec: true}
}

// AllowSealing 设置创建出的 memfd 是否允许后续的密封操作
// 返回更新后的配置副本，原配置不变
func (o Options) AllowSealing(allow bool) Options {
	o.allowSealing = allow
	return o
}

// CloseOnExec 设置是否在描述符上标记 FD_CLOEXEC
// 返回更新后的配置副本，原配置不变
func (o Options) CloseOnExec(cloexec bool) Options {
	o.closeOnExec = cloexec
	return o
}

// Hugetlb 设置 hugetlb 页大小，传入 HugeNone 表示不启用 hugetlb
// 返回更新后的配置副本，原配置不变
func (o Options) Hugetlb(size HugetlbSize) Options {
	o.hugetlb = size
	return o
}

// bitflags 将当前配置转换为 memfd_create 的标志位组合
// 每次调用都从配置重新计算，不做缓存
func (o Options) bitflags() int {
	flags := 0
	if o.allowSealing {
		flags |= unix.MFD_ALLOW_SEALING
	}
	if o.closeOnExec {
		flags |= unix.MFD_CLOEXEC
	}
	if o.hugetlb != HugeNone {
		flags |= unix.MFD_HUGETLB | o.hugetlb.bitflags()
	}
	return flags
}

// Create 按当前配置创建一个新的 memfd
// 参数：
//   - name: 文件名（仅用于调试，会出现在 /proc 中，不要求唯一）
//
// 返回：
//   - *Memfd: 独占新描述符的句柄
//   - error: 名称含空字节时为 *NameError，系统调用失败时为 *CreateError
//
// 名称校验失败时不会发起系统调用，也就不会产生任何内核对象
func (o Options) Create(name string) (*Memfd, error) {
	if strings.IndexByte(name, 0) >= 0 {
		return nil, &NameError{Name: name, Err: unix.EINVAL}
	}
	fd, err := memfdCreate(name, o.bitflags())
	if err != nil {
		return nil, &CreateError{Err: err}
	}
	file := os.NewFile(uintptr(fd), name)
	if file == nil {
		unix.Close(fd)
		return nil, &CreateError{Err: unix.EBADF}
	}
	return &Memfd{file: file}, nil
}
