// Package collector 基于 gopsutil 采集系统指标，每次采集产出若干 Snapshot，
// 由 registers 中的循环逐个交给导出器写入。
package collector

// Snapshot 一次采集的扁平结果：Columns 与 Points 按位置一一对应
type Snapshot struct {
	Name    string
	Columns []string
	Points  []any
}

// add 追加一列
func (s *Snapshot) add(column string, value any) {
	s.Columns = append(s.Columns, column)
	s.Points = append(s.Points, value)
}

func newSnapshot(name string, capacity int) Snapshot {
	return Snapshot{
		Name:    name,
		Columns: make([]string, 0, capacity),
		Points:  make([]any, 0, capacity),
	}
}

// ignored 判断名称是否在忽略列表中
func ignored(list []string, names ...string) bool {
	for _, item := range list {
		for _, n := range names {
			if n != "" && item == n {
				return true
			}
		}
	}
	return false
}
