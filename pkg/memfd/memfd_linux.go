package memfd

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Memfd 表示一个匿名内存文件的句柄，独占其底层文件描述符
// 所有密封状态都保存在内核中，每次查询都实时获取，不在内存中缓存
type Memfd struct {
	file *os.File
}

// TryFromFile 尝试把一个已打开的文件转换为 Memfd
// 通过对描述符发起 F_GET_SEALS 查询来探测兼容性：
//   - 查询成功：返回持有该文件所有权的 Memfd 和 true，调用者不得再使用 f
//   - 查询失败：返回 nil 和 false，f 的所有权仍归调用者，文件保持原样可用
//
// 两个分支都不会复制、关闭或泄漏描述符。
// 注意这是能力探测而不是类型检查：任何能响应 F_GET_SEALS 的描述符都会被接受
func TryFromFile(f *os.File) (*Memfd, bool) {
	if _, err := fileGetSeals(f); err != nil {
		return nil, false
	}
	return &Memfd{file: f}, true
}

// File 返回底层文件对象的非所有权视图
// 调用者不得关闭它，也不得在 Memfd 生命周期之外继续使用
func (m *Memfd) File() *os.File {
	return m.file
}

// IntoFile 消耗 Memfd，把底层文件的独占所有权转移给返回值
// 这是终结操作：之后句柄上的 Close 是空操作，其余方法不得再调用
func (m *Memfd) IntoFile() *os.File {
	f := m.file
	m.file = nil
	return f
}

// Close 关闭底层描述符
// 若所有权已经通过 IntoFile 转移则不做任何事
func (m *Memfd) Close() error {
	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	return err
}

// HostPath 返回通过 /proc 访问该匿名文件的路径
// 仅在当前进程内有效，对象本身仍然没有真正的文件系统路径
func (m *Memfd) HostPath() string {
	return fmt.Sprintf("/proc/self/fd/%d", m.file.Fd())
}

// Seals 查询当前生效的密封集合
// 每次调用都发起一次 F_GET_SEALS 系统调用，失败时返回 *GetSealsError
func (m *Memfd) Seals() (SealSet, error) {
	bits, err := fileGetSeals(m.file)
	if err != nil {
		return nil, &GetSealsError{Err: err}
	}
	return bitflagsToSeals(bits), nil
}

// AddSeal 添加单个密封，等价于添加只含该密封的集合
func (m *Memfd) AddSeal(seal Seal) error {
	return m.AddSeals(NewSealSet(seal))
}

// AddSeals 向底层对象添加一组密封，失败时返回 *AddSealsError
// 提交的位掩码就是集合本身的编码，不与已有密封合并，
// 内核的 F_ADD_SEALS 对已生效的密封位是幂等的。
// 密封属于内核对象而非描述符：添加成功后对所有引用该对象的描述符生效，
// 且在对象销毁前不可撤销；SealSeal 生效后任何后续添加都会失败
func (m *Memfd) AddSeals(seals SealSet) error {
	if err := fileAddSeals(m.file, sealsToBitflags(seals)); err != nil {
		return &AddSealsError{Err: err}
	}
	return nil
}

// 以下三个函数是本包唯一的系统调用边界。
// 前置条件：文件对象持有有效的描述符；
// 后置条件：memfdCreate 返回的描述符所有权转移给调用者。
// 被信号中断（EINTR）视为瞬态条件，内部重试，不对调用者暴露。

// memfdCreate 发起 memfd_create 系统调用并返回新描述符
func memfdCreate(name string, flags int) (int, error) {
	for {
		fd, err := unix.MemfdCreate(name, flags)
		if err == unix.EINTR {
			continue
		}
		return fd, err
	}
}

// fileGetSeals 发起 fcntl(F_GET_SEALS) 查询并返回原始位掩码
// 由 Seals 和 TryFromFile 的探测共用
func fileGetSeals(f *os.File) (int, error) {
	for {
		bits, err := unix.FcntlInt(f.Fd(), unix.F_GET_SEALS, 0)
		if err == unix.EINTR {
			continue
		}
		return bits, err
	}
}

// fileAddSeals 发起 fcntl(F_ADD_SEALS) 提交位掩码
func fileAddSeals(f *os.File, bits int) error {
	for {
		_, err := unix.FcntlInt(f.Fd(), unix.F_ADD_SEALS, bits)
		if err == unix.EINTR {
			continue
		}
		return err
	}
}
