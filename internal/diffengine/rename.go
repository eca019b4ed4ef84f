package diffengine

import (
	"os"

	"github.com/tdepke2/BackupTools/internal/bpath"
	"github.com/tdepke2/BackupTools/internal/equivalence"
)

// detectRenames pairs up additions and deletions that are both regular
// files of equal size and byte-identical content, reclassifying each such
// pair as a Rename and removing it from the returned addition/deletion
// slices. Directories never participate (equivalence.Oracle only
// byte-compares regular files).
//
// Candidates are bucketed by file size first, then narrowed with a
// cespare/xxhash/v2 digest of each side before ever falling back to the
// Oracle's full byte-for-byte comparison — the digest is a fast-reject
// prefilter only, never itself the rename verdict.
func detectRenames(additions []Pair, deletions []bpath.Path, oracle *equivalence.Oracle) ([]Pair, []Rename, []bpath.Path) {
	type deletionInfo struct {
		path   bpath.Path
		size   int64
		digest uint64
		used   bool
	}

	buckets := map[int64][]int{}
	infos := make([]deletionInfo, len(deletions))
	for i, d := range deletions {
		info, err := os.Lstat(d.String())
		infos[i] = deletionInfo{path: d}
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		infos[i].size = info.Size()
		if digest, err := equivalence.Digest(d.String()); err == nil {
			infos[i].digest = digest
		}
		buckets[info.Size()] = append(buckets[info.Size()], i)
	}

	var renames []Rename
	var remainingAdditions []Pair
	for _, add := range additions {
		srcInfo, err := os.Lstat(add.Source.String())
		if err != nil || !srcInfo.Mode().IsRegular() {
			remainingAdditions = append(remainingAdditions, add)
			continue
		}

		srcDigest, haveSrcDigest := uint64(0), false
		if d, err := equivalence.Digest(add.Source.String()); err == nil {
			srcDigest, haveSrcDigest = d, true
		}

		matched := -1
		for _, idx := range buckets[srcInfo.Size()] {
			info := &infos[idx]
			if info.used {
				continue
			}
			if haveSrcDigest && info.digest != 0 && srcDigest != info.digest {
				continue
			}
			if oracle.Equivalent(add.Source.String(), info.path.String(), true, false) {
				matched = idx
				break
			}
		}

		if matched >= 0 {
			infos[matched].used = true
			renames = append(renames, Rename{OldDestination: infos[matched].path, NewDestination: add.Destination})
		} else {
			remainingAdditions = append(remainingAdditions, add)
		}
	}

	var remainingDeletions []bpath.Path
	for i, info := range infos {
		if !info.used {
			remainingDeletions = append(remainingDeletions, deletions[i])
		}
	}

	return remainingAdditions, renames, remainingDeletions
}
