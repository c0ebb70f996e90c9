package latex

import (
	"fmt"
	"strings"
)

// AddHeader emits the column header followed by a mid rule, grouped or
// not. Longtables also get the repeated header and the continuation footer.
func (t *Table) AddHeader() {
	header := t.headerRows()
	t.Base.Add(header)
	t.AddMidRule()
	if t.kind != Longtable {
		return
	}

	// Resetting the row counter keeps zebra stripes aligned after each
	// header block.
	t.Base.Add("\\endfirsthead\n\\noalign{\\global\\rownum=0}\n")
	t.AddTopRule()
	t.Base.Add(header)
	t.AddMidRule()
	t.Base.Add("\\endhead\n\\noalign{\\global\\rownum=0}\n")
	t.AddMidRule()
	width := t.index.Levels() + t.columns.Len()
	t.Base.Add(fmt.Sprintf("\\multicolumn{%d}{c}{{Continued on Next Page\\ldots}}\\\\\n", width))
	t.Base.Add("\\endfoot\n\\bottomrule\n\\endlastfoot\n\\noalign{\\global\\rownum=1}\n")
}

// headerRows builds one header row per column level. Outer levels leave
// the key columns blank and merge each contiguous run of equal labels into
// one spanning cell with a partial rule beneath it. The innermost level
// names the key columns and labels every leaf column.
func (t *Table) headerRows() string {
	groups := t.columns.Groups()
	depth := groups.Depth()
	keyNames := t.index.LevelNames()

	var sb strings.Builder
	for l := 0; l < depth; l++ {
		cells := make([]string, 0, len(keyNames)+t.columns.Len())

		if l < depth-1 {
			for range keyNames {
				cells = append(cells, "")
			}
			var rules []string
			offset := len(keyNames)
			for _, run := range groups.Levels[l] {
				cells = append(cells, fmt.Sprintf("\\multicolumn{%d}{c}{%s}", run.Span, bold(run.Name)))
				rules = append(rules, fmt.Sprintf("\\cmidrule(lr){%d-%d}", offset+1, offset+run.Span))
				offset += run.Span
			}
			sb.WriteString(strings.Join(cells, " & ") + " \\\\\n")
			for _, r := range rules {
				sb.WriteString(r + "\n")
			}
			continue
		}

		for _, name := range keyNames {
			cells = append(cells, bold(name))
		}
		for _, lab := range t.columns.Labels {
			cells = append(cells, bold(lab[l]))
		}
		sb.WriteString(strings.Join(cells, " & ") + " \\\\\n")
	}
	return sb.String()
}
