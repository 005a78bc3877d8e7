// Package planner resolves which techpacks apply to which part of each base.
//
// The planner never runs tools; its only filesystem access is the existing
// output name check in ConflictChecker, done through fsops.FS. It orders
// techpacks so symbol producers precede their consumers, then offers them one
// by one to a PartitionSet per base. A partition set splits its
// partitions whenever a techpack applies to only part of one, so every
// distinct combination of techpacks ends up in its own partition and devices
// without any techpack keep an untouched partition.
//
// Key responsibilities:
//   - Order techpacks by their symbol/fixup dependencies
//   - Split partitions on partial overlap (split-on-conflict)
//   - Derive deterministic output names for final partitions
//   - Build the save plan and report output name conflicts
package planner
