// Package kernel holds the value objects shared by every aggregate of the
// dispatch core: identifiers, geographic points, addresses and the haversine
// distance rule used by both shop browsing and partner matching.
//
// All values are immutable and validated on construction; their zero values
// fail Validate.
package kernel
