// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

// Package knowledge provides the persistent name-to-identifier association
// store consulted by the correction engine. The pipeline only ever reads
// from it during a run; teaching it from a corrected batch is a separate,
// external flow.
package knowledge

import "freight-scan/internal/document"

// Base is the lookup contract the correction engine consumes.
type Base interface {
	// IdentifierByName returns the identifier associated with a normalized
	// name key, scoped by the field role the name was observed in.
	IdentifierByName(nameKey string, role document.Role) (string, bool)

	// NameByIdentifier returns the company name associated with an
	// identifier, regardless of role.
	NameByIdentifier(id string) (string, bool)
}

// Learner is implemented by stores that can be taught new associations.
type Learner interface {
	Learn(role document.Role, nameKey, id, name string) error
}

// MemoryBase is an in-memory Base, used in tests and for batch runs without
// a configured store.
type MemoryBase struct {
	byName map[document.Role]map[string]string
	byID   map[string]string
}

// NewMemoryBase returns an empty in-memory knowledge base.
func NewMemoryBase() *MemoryBase {
	return &MemoryBase{
		byName: make(map[document.Role]map[string]string),
		byID:   make(map[string]string),
	}
}

// Learn records an association.
func (m *MemoryBase) Learn(role document.Role, nameKey, id, name string) error {
	if nameKey != "" && id != "" {
		if m.byName[role] == nil {
			m.byName[role] = make(map[string]string)
		}
		m.byName[role][nameKey] = id
	}
	if id != "" && name != "" {
		m.byID[id] = name
	}
	return nil
}

// IdentifierByName implements Base.
func (m *MemoryBase) IdentifierByName(nameKey string, role document.Role) (string, bool) {
	id, ok := m.byName[role][nameKey]
	return id, ok
}

// NameByIdentifier implements Base.
func (m *MemoryBase) NameByIdentifier(id string) (string, bool) {
	name, ok := m.byID[id]
	return name, ok
}
