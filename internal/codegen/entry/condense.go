package entry

import "github.com/nautilus-project/nautilus/internal/codegen/meta"

// Condense keeps the first occurrence of every slot identity. Later
// duplicates only OR their mut and signer flags into the kept slot; position
// and subtype stay those of the first occurrence. pos[i] is the index in out
// that in[i] ended up at.
func Condense(in []meta.RequiredAccount) (out []meta.RequiredAccount, pos []int) {
	seen := make(map[string]int, len(in))
	pos = make([]int, len(in))
	for i, acc := range in {
		if j, ok := seen[acc.Name]; ok {
			out[j].Mut = out[j].Mut || acc.Mut
			out[j].Signer = out[j].Signer || acc.Signer
			pos[i] = j
			continue
		}
		seen[acc.Name] = len(out)
		pos[i] = len(out)
		out = append(out, acc)
	}
	return out, pos
}
