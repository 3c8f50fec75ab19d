package memfd

import "fmt"

// NameError 表示 memfd 的名称无法转换为 C 风格的空结尾字符串
// 通常是因为名称中包含了内嵌的空字节（NUL）
type NameError struct {
	Name string // 出错的名称
	Err  error  // 底层错误
}

func (e *NameError) Error() string {
	return fmt.Sprintf("memfd: invalid name %q %v", e.Name, e.Err)
}

// Unwrap 返回底层错误，支持 errors.Is / errors.As 链式检查
func (e *NameError) Unwrap() error { return e.Err }

// CreateError 表示 memfd_create 系统调用失败
type CreateError struct {
	Err error // 底层的系统错误
}

func (e *CreateError) Error() string {
	return fmt.Sprintf("memfd: memfd_create failed %v", e.Err)
}

// Unwrap 返回底层错误
func (e *CreateError) Unwrap() error { return e.Err }

// AddSealsError 表示添加密封的 fcntl(F_ADD_SEALS) 系统调用失败
// 包括对象已经被完全密封（SealSeal 已生效）的情况
type AddSealsError struct {
	Err error // 底层的系统错误
}

func (e *AddSealsError) Error() string {
	return fmt.Sprintf("memfd: add seals failed %v", e.Err)
}

// Unwrap 返回底层错误
func (e *AddSealsError) Unwrap() error { return e.Err }

// GetSealsError 表示查询密封的 fcntl(F_GET_SEALS) 系统调用失败
// 包括文件描述符不支持密封查询的情况（TryFromFile 用它来判别兼容性）
type GetSealsError struct {
	Err error // 底层的系统错误
}

func (e *GetSealsError) Error() string {
	return fmt.Sprintf("memfd: get seals failed %v", e.Err)
}

// Unwrap 返回底层错误
func (e *GetSealsError) Unwrap() error { return e.Err }
