package feature

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
)

// LoadCSV 从 CSV 文件加载特征表。
// 约定：首行是表头，首列是行标识符，其余列是数值特征。
// 无法解析为数值的单元格（含 NaN）按 0.0 处理——缺失值不允许进入共享嵌入空间。
//
// 文件不存在或表为空时返回错误，由调用方降级对应的打分能力（不是致命错误）。
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feature table: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV 从 reader 加载特征表，规则同 LoadCSV。
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // 宽度校验自己做，坏行跳过而不是整表失败

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read feature table header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("feature table needs an id column and at least one feature column")
	}
	width := len(header) - 1

	t := NewTable(width)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read feature table row: %w", err)
		}
		if len(rec) != width+1 {
			continue
		}
		vec := make([]float64, width)
		for i, cell := range rec[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) { // 解析失败、NaN、Inf 都归零
				v = 0
			}
			vec[i] = v
		}
		t.put(rec[0], vec)
	}

	if t.Len() == 0 {
		return nil, fmt.Errorf("feature table is empty")
	}
	return t, nil
}
