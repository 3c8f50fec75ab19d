// Package pipe 提供了一个包装器，用于创建管道并将读取端最多指定字节数的数据
// 收集到一个匿名内存文件（memfd）中。
// 主要用于收集和限制程序的输出数据，收集结果可以继续密封后跨进程共享。
package pipe

import (
	"fmt"
	"io"
	"os"

	"github.com/zqzqsb/memfd/pkg/memfd"
)

// Buffer 用于创建一个可写的管道，并将最多 Max 字节的数据收集到内存文件中
// 超出限制的数据会被读取并丢弃，保证写入端不会阻塞
type Buffer struct {
	W     *os.File        // 管道的写入端
	Memfd *memfd.Memfd    // 收集数据的内存文件
	Done  <-chan struct{} // 信号通道，当收集完成时关闭
	Max   int64           // 最大允许收集的字节数
}

// NewPipe 创建一个管道，并启动一个 goroutine 将其读取端的数据复制到指定的 writer
// 参数：
//   - writer: 数据写入的目标
//   - n: 最大复制的字节数
//
// 返回：
//   - <-chan struct{}: 完成信号通道，当复制完成时关闭
//   - *os.File: 管道的写入端
//   - error: 错误信息
//
// 注意：调用者需要负责关闭返回的写入端（w）
func NewPipe(writer io.Writer, n int64) (<-chan struct{}, *os.File, error) {
	r, w, err := os.Pipe()
	if err != nil {
		return nil, nil, err
	}

	done := make(chan struct{})
	go func() {
		// 复制指定字节数的数据到 writer
		io.CopyN(writer, r, n)
		// 复制完成后关闭信号通道
		close(done)
		// 继续读取并丢弃剩余数据，确保写入端不会因为管道满而阻塞或收到 SIGPIPE 信号
		io.Copy(io.Discard, r)
		// 关闭读取端
		r.Close()
	}()

	return done, w, nil
}

// NewBuffer 创建一个新的 Buffer，它包含一个 OS 管道和一个收集数据的内存文件
// 参数：
//   - name: 内存文件的调试名称
//   - max: 允许收集的最大字节数
//
// 返回的内存文件允许密封，调用者可以在收集完成后将其冻结为只读。
// 实际最多收集 max+1 字节，多出的一字节用于检测输出是否超出限制。
// 注意：如果依赖 Done 通道来判断完成，需要在父进程中关闭写入端
func NewBuffer(name string, max int64) (*Buffer, error) {
	m, err := memfd.New(name)
	if err != nil {
		return nil, err
	}

	done, w, err := NewPipe(m.File(), max+1)
	if err != nil {
		m.Close()
		return nil, err
	}

	return &Buffer{
		W:     w,    // 管道写入端
		Memfd: m,    // 收集数据的内存文件
		Done:  done, // 完成信号通道
		Max:   max,  // 最大字节数限制
	}, nil
}

// Len 返回当前已收集的字节数
func (b Buffer) Len() int64 {
	fi, err := b.Memfd.File().Stat()
	if err != nil {
		return 0
	}
	return fi.Size()
}

// String 实现 Stringer 接口，返回 Buffer 的当前状态字符串
// 格式为：Buffer[当前字节数/最大字节数]
func (b Buffer) String() string {
	return fmt.Sprintf("Buffer[%d/%d]", b.Len(), b.Max)
}
