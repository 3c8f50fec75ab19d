package memfd

import (
	"testing"
)

func TestParseHugetlbSize(t *testing.T) {
	tests := []struct {
		str     string
		want    HugetlbSize
		wantErr bool
	}{
		{str: "64KB", want: Huge64KB},
		{str: "64kb", want: Huge64KB},
		{str: "512K", want: Huge512KB},
		{str: "1MB", want: Huge1MB},
		{str: "2MB", want: Huge2MB},
		{str: "8m", want: Huge8MB},
		{str: "16MB", want: Huge16MB},
		{str: "256MB", want: Huge256MB},
		{str: "1GB", want: Huge1GB},
		{str: "2g", want: Huge2GB},
		{str: "16GB", want: Huge16GB},
		{str: " 2MB ", want: Huge2MB},
		{str: "", wantErr: true},
		{str: "4MB", wantErr: true},   // 不在十种类别之内
		{str: "64", wantErr: true},    // 无单位后缀，按 64 字节处理
		{str: "foo", wantErr: true},
		{str: "-2MB", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			got, err := ParseHugetlbSize(tt.str)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseHugetlbSize(%q) error = %v, wantErr %v", tt.str, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseHugetlbSize(%q) = %v, want %v", tt.str, got, tt.want)
			}
		})
	}
}

// TestHugetlbSizeStringRoundTrip 验证十种页大小的打印结果都能被重新解析
func TestHugetlbSizeStringRoundTrip(t *testing.T) {
	sizes := []HugetlbSize{
		Huge64KB, Huge512KB, Huge1MB, Huge2MB, Huge8MB,
		Huge16MB, Huge256MB, Huge1GB, Huge2GB, Huge16GB,
	}
	for _, size := range sizes {
		got, err := ParseHugetlbSize(size.String())
		if err != nil {
			t.Errorf("ParseHugetlbSize(%q) error = %v", size.String(), err)
			continue
		}
		if got != size {
			t.Errorf("ParseHugetlbSize(%q) = %v, want %v", size.String(), got, size)
		}
	}
}

// TestHugetlbSizeBitflags 验证每个类别映射到互不相同的标志位
func TestHugetlbSizeBitflags(t *testing.T) {
	sizes := []HugetlbSize{
		Huge64KB, Huge512KB, Huge1MB, Huge2MB, Huge8MB,
		Huge16MB, Huge256MB, Huge1GB, Huge2GB, Huge16GB,
	}
	seen := make(map[int]HugetlbSize)
	for _, size := range sizes {
		bits := size.bitflags()
		if bits == 0 {
			t.Errorf("HugetlbSize(%v).bitflags() = 0", size)
		}
		if prev, ok := seen[bits]; ok {
			t.Errorf("HugetlbSize(%v) and %v share bitflags %#x", size, prev, bits)
		}
		seen[bits] = size
	}
	if HugeNone.bitflags() != 0 {
		t.Errorf("HugeNone.bitflags() = %#x, want 0", HugeNone.bitflags())
	}
}
