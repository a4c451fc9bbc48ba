package spectrogram

import (
	"sort"

	"github.com/corona10/goimagehash"
)

// HashedClip pairs a clip with the pHash of its spectrogram.
type HashedClip struct {
	Path string
	Hash *goimagehash.ImageHash
}

// GroupSimilar links clips whose hashes are within threshold bits of each other
// and returns the groups with more than one clip. Linking is transitive, so two
// clips in a group may be further apart than threshold. Groups and their members
// are sorted by path.
func GroupSimilar(clips []HashedClip, threshold int) [][]string {
	parent := make([]int, len(clips))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		if parent[i] != i {
			parent[i] = find(parent[i])
		}
		return parent[i]
	}

	for i := 0; i < len(clips); i++ {
		for j := i + 1; j < len(clips); j++ {
			d, err := clips[i].Hash.Distance(clips[j].Hash)
			if err != nil || d > threshold {
				continue
			}
			if ri, rj := find(i), find(j); ri != rj {
				parent[rj] = ri
			}
		}
	}

	members := make(map[int][]string)
	for i, c := range clips {
		root := find(i)
		members[root] = append(members[root], c.Path)
	}

	var groups [][]string
	for _, paths := range members {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		groups = append(groups, paths)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}
