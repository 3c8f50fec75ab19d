package pipe

import (
	"bytes"
	"io"
	"testing"
)

// readCollected 收集完成后从内存文件开头读出全部内容
func readCollected(t *testing.T, b *Buffer) []byte {
	t.Helper()
	f := b.Memfd.File()
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("Seek() error = %v", err)
	}
	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	return data
}

func TestBufferCollect(t *testing.T) {
	b, err := NewBuffer("collect", 1024)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	defer b.Memfd.Close()

	content := []byte("collected output")
	if _, err := b.W.Write(content); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	b.W.Close()
	<-b.Done

	if got := readCollected(t, b); !bytes.Equal(got, content) {
		t.Errorf("collected = %q, want %q", got, content)
	}
	if got, want := b.Len(), int64(len(content)); got != want {
		t.Errorf("Len() = %d, want %d", got, want)
	}
}

// TestBufferOverflow 验证超出限制时收集在 max+1 字节处停止
func TestBufferOverflow(t *testing.T) {
	const max = 8
	b, err := NewBuffer("overflow", max)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	defer b.Memfd.Close()

	if _, err := b.W.Write(bytes.Repeat([]byte("x"), 4*max)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	b.W.Close()
	<-b.Done

	if got := b.Len(); got != max+1 {
		t.Errorf("Len() = %d, want %d", got, max+1)
	}
	if got := b.Len(); got <= max {
		t.Errorf("Len() = %d, want overflow marker beyond max %d", got, max)
	}
}

func TestBufferString(t *testing.T) {
	b, err := NewBuffer("string", 16)
	if err != nil {
		t.Fatalf("NewBuffer() error = %v", err)
	}
	defer b.Memfd.Close()
	defer b.W.Close()

	if got, want := b.String(), "Buffer[0/16]"; got != want {
		t.Errorf("String() = %v, want %v", got, want)
	}
}
