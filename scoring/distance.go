package scoring

// Distance returns the Levenshtein edit distance between a and b: the
// minimum number of single-character insertions, deletions and
// substitutions needed to transform one into the other. It operates on raw
// bytes with no unicode normalization, matching how domains are compared
// everywhere else in this package.
func Distance(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	rows := len(b) + 1
	cols := len(a) + 1
	table := make([][]int, rows)
	for i := range table {
		table[i] = make([]int, cols)
		table[i][0] = i
	}
	for j := 0; j < cols; j++ {
		table[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if b[i-1] == a[j-1] {
				cost = 0
			}
			del := table[i-1][j] + 1
			ins := table[i][j-1] + 1
			sub := table[i-1][j-1] + cost
			table[i][j] = minInt(del, minInt(ins, sub))
		}
	}
	return table[rows-1][cols-1]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
