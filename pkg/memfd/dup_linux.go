package memfd

import (
	"fmt"
	"io"
)

// readOnlySeals 把对象冻结为只读时使用的完整密封集合：
// 禁止缩小、增长、写入，并禁止进一步修改密封
var readOnlySeals = NewSealSet(SealSeal, SealShrink, SealGrow, SealWrite)

// New 创建一个允许密封的 memfd
// 等价于 NewOptions().AllowSealing(true).Create(name)
// 注意：调用者需要负责关闭返回的句柄
func New(name string) (*Memfd, error) {
	return NewOptions().AllowSealing(true).Create(name)
}

// DupToMemfd 将 reader 中的内容读取到一个只读的 memfd 中
// 主要用于在进程间安全地共享一份不可修改的文件副本
// 参数：
//   - name: 文件名（仅用于调试）
//   - reader: 数据来源
//
// 返回的句柄已施加全部四种密封，文件指针位于开头
func DupToMemfd(name string, reader io.Reader) (*Memfd, error) {
	m, err := New(name)
	if err != nil {
		return nil, fmt.Errorf("DupToMemfd: %w", err)
	}
	// 注：如果 reader 是文件，使用 linux syscall sendfile 可能更高效
	if _, err := m.File().ReadFrom(reader); err != nil {
		m.Close()
		return nil, fmt.Errorf("DupToMemfd: read from %w", err)
	}
	if err := m.AddSeals(readOnlySeals); err != nil {
		m.Close()
		return nil, fmt.Errorf("DupToMemfd: %w", err)
	}
	// 将文件指针重置到开始位置
	if _, err := m.File().Seek(0, io.SeekStart); err != nil {
		m.Close()
		return nil, fmt.Errorf("DupToMemfd: file seek %w", err)
	}
	return m, nil
}
