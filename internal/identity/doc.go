// Package identity models which physical devices a device-tree blob applies to.
//
// A blob is restricted along three independent axes: platform id
// (qcom,msm-id), board id (qcom,board-id) and pmic id (qcom,pmic-id). Each
// axis is either unconstrained (the blob carries no such property and
// matches every device on that axis) or a non-empty set of fixed-arity
// integer tuples.
//
// Key operations:
//   - Contains: containment between identities
//   - Intersect: per-axis overlap used by the partition resolver
//   - Difference: split an identity so one piece equals a contained identity
//   - MoreSpecificThan: bootloader-style overlay matching
package identity
