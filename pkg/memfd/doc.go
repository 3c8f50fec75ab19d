// Package memfd 提供了 Linux memfd（匿名内存文件）的安全封装，用于创建和密封内存中的文件。
// memfd 是一种匿名的、由内存支持的文件对象，只能通过文件描述符访问（默认没有路径）。
// 创建后可以对其添加密封（seal），单向地限制后续的缩小、增长、写入或进一步密封操作。
//
// 典型用法：通过 Options 配置并调用 Create 得到一个 Memfd 句柄，
// 句柄独占底层文件描述符，密封状态始终向内核实时查询，不做缓存。
//
// 要求 Linux 内核版本 >= 3.17
package memfd
