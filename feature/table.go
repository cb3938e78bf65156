// Package feature 实现特征表：以标识符为键的定宽数值向量表，
// 从离线管道产出的 CSV 加载，是嵌入投影的输入。
package feature

// Table 是一张只读特征表。行序保持加载顺序，下游的目录遍历顺序
// （内容打分的并列打破规则）依赖这一点。
type Table struct {
	ids   []string
	width int
	rows  map[string][]float64
}

// NewTable 构建空表。width 是该实体类型观测到的特征宽度，表内恒定。
func NewTable(width int) *Table {
	return &Table{
		width: width,
		rows:  make(map[string][]float64),
	}
}

// Width 返回特征宽度。
func (t *Table) Width() int { return t.width }

// Len 返回行数。
func (t *Table) Len() int { return len(t.ids) }

// IDs 返回行标识符（加载顺序）。调用方不得修改。
func (t *Table) IDs() []string { return t.ids }

// Row 返回某行的特征向量。调用方不得修改。
func (t *Table) Row(id string) ([]float64, bool) {
	v, ok := t.rows[id]
	return v, ok
}

// put 追加一行。宽度不符的行被丢弃；重复 ID 以首次出现为准。
func (t *Table) put(id string, vec []float64) {
	if id == "" || len(vec) != t.width {
		return
	}
	if _, ok := t.rows[id]; ok {
		return
	}
	t.ids = append(t.ids, id)
	t.rows[id] = vec
}
