// Package unixsocket 提供了 Unix domain socket 的封装，
// 用于通过 SCM_RIGHTS 带外消息在进程间传递内存文件（memfd）的描述符。
// 接收端会对收到的描述符做密封能力探测，只有支持密封查询的描述符才会被当作 memfd 接受。
package unixsocket

import (
	"fmt"
	"net"
	"os"
	"syscall"

	"github.com/zqzqsb/memfd/pkg/memfd"
)

// oob size default to page size
// OOB (Out-Of-Band) 数据大小默认为一个内存页大小 4KB
// 这个大小足够存储随消息传递的描述符信息
const oobSize = 4 << 10 // 4kb

// Socket 封装了 Unix domain socket 连接
// 包含接收缓冲区，用于处理携带描述符的 OOB 消息
type Socket struct {
	*net.UnixConn        // 内嵌 Unix socket 连接
	recvBuff      []byte // OOB 接收缓冲区
}

// newSocket 创建一个新的 Socket 实例并初始化接收缓冲区
func newSocket(conn *net.UnixConn) *Socket {
	return &Socket{
		UnixConn: conn,
		recvBuff: make([]byte, oobSize),
	}
}

// NewSocket 使用现有的 Unix socket 文件描述符创建 Socket 结构
// 参数:
//   - fd: Unix socket 文件描述符
//
// 特性:
//   - 设置为非阻塞模式
//   - 设置 close-on-exec 标志，避免文件描述符泄漏
//   - 需要 SOCK_SEQPACKET 类型的 socket 以保证可靠传输
func NewSocket(fd int) (*Socket, error) {
	// 设置非阻塞模式
	syscall.SetNonblock(fd, true)
	// 设置 close-on-exec 标志
	syscall.CloseOnExec(fd)

	// 将文件描述符转换为 File 对象
	file := os.NewFile(uintptr(fd), "unix-socket")
	if file == nil {
		return nil, fmt.Errorf("NewSocket: %d is not a valid fd", fd)
	}
	defer file.Close()

	// 将 File 对象转换为 net.Conn
	conn, err := net.FileConn(file)
	if err != nil {
		return nil, err
	}

	// 确保是 Unix domain socket 连接
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("NewSocket: %d is not a valid unix socket connection", fd)
	}
	return newSocket(unixConn), nil
}

// NewSocketPair 创建一对相连的 Unix domain socket
// 使用 SOCK_SEQPACKET 类型确保可靠的数据传输
// 返回的两个 Socket 对象可分别交给父子进程用于传递内存文件
func NewSocketPair() (*Socket, *Socket, error) {
	// 创建 socket 对，使用 SOCK_SEQPACKET 类型和 SOCK_CLOEXEC 标志
	fd, err := syscall.Socketpair(syscall.AF_LOCAL, syscall.SOCK_SEQPACKET|syscall.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("NewSocketPair: failed to call socketpair %v", err)
	}

	// 创建发送端 socket
	ins, err := NewSocket(fd[0])
	if err != nil {
		syscall.Close(fd[0])
		syscall.Close(fd[1])
		return nil, nil, fmt.Errorf("NewSocketPair: failed to call NewSocket on sender %v", err)
	}

	// 创建接收端 socket
	outs, err := NewSocket(fd[1])
	if err != nil {
		ins.Close()
		syscall.Close(fd[1])
		return nil, nil, fmt.Errorf("NewSocketPair: failed to call NewSocket receiver %v", err)
	}

	return ins, outs, nil
}

// SendFile 通过 SCM_RIGHTS 发送一个文件描述符
// 消息正文固定为一个字节，接收端以此区分消息边界
func (s *Socket) SendFile(f *os.File) error {
	oob := syscall.UnixRights(int(f.Fd()))
	_, _, err := s.WriteMsgUnix([]byte{0}, oob, nil)
	return err
}

// RecvFile 接收一个文件描述符并包装为 File 对象
// 收到的消息必须恰好携带一个描述符，多余的描述符会被关闭后报错
func (s *Socket) RecvFile() (*os.File, error) {
	b := make([]byte, 1)
	_, oobn, _, _, err := s.ReadMsgUnix(b, s.recvBuff)
	if err != nil {
		return nil, err
	}
	msgs, err := syscall.ParseSocketControlMessage(s.recvBuff[:oobn])
	if err != nil {
		return nil, err
	}
	fds, err := parseFds(msgs)
	if err != nil {
		return nil, err
	}
	if len(fds) != 1 {
		for _, fd := range fds {
			syscall.Close(fd)
		}
		return nil, fmt.Errorf("RecvFile: got %d fds, want 1", len(fds))
	}
	// 收到的描述符不继承发送端的 close-on-exec 标志，补上以免泄漏
	syscall.CloseOnExec(fds[0])
	file := os.NewFile(uintptr(fds[0]), "unix-socket-recv")
	if file == nil {
		syscall.Close(fds[0])
		return nil, fmt.Errorf("RecvFile: %d is not a valid fd", fds[0])
	}
	return file, nil
}

// SendMemfd 发送一个内存文件的描述符
// 只传递描述符本身，发送端保留句柄的所有权，需要自行关闭
func (s *Socket) SendMemfd(m *memfd.Memfd) error {
	return s.SendFile(m.File())
}

// RecvMemfd 接收一个描述符并探测其密封能力
// 不支持密封查询的描述符会被关闭并返回错误
func (s *Socket) RecvMemfd() (*memfd.Memfd, error) {
	file, err := s.RecvFile()
	if err != nil {
		return nil, err
	}
	m, ok := memfd.TryFromFile(file)
	if !ok {
		file.Close()
		return nil, fmt.Errorf("RecvMemfd: received fd does not support sealing")
	}
	return m, nil
}

// parseFds 从 socket 控制消息中解析出全部 SCM_RIGHTS 描述符
// 解析出错时关闭已收到的描述符，避免泄漏
func parseFds(msgs []syscall.SocketControlMessage) (fds []int, err error) {
	defer func() {
		if err != nil {
			for _, fd := range fds {
				syscall.Close(fd)
			}
			fds = nil
		}
	}()

	for _, m := range msgs {
		if m.Header.Level != syscall.SOL_SOCKET || m.Header.Type != syscall.SCM_RIGHTS {
			continue
		}
		parsed, perr := syscall.ParseUnixRights(&m)
		if perr != nil {
			return fds, perr
		}
		fds = append(fds, parsed...)
	}
	return fds, nil
}
