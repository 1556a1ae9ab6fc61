package opt

import (
	_ "unsafe" // for linkname
)

// nolint:all
//
//go:linkname runtime_semacquire sync.runtime_Semacquire
func runtime_semacquire(s *uint32)

// nolint:all
//
//go:linkname runtime_semrelease sync.runtime_Semrelease
func runtime_semrelease(s *uint32, handoff bool, skipframes int)
