// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package knowledge

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"freight-scan/internal/document"
)

func TestMemoryBase(t *testing.T) {
	kb := NewMemoryBase()
	require.NoError(t, kb.Learn(document.RoleRecipient, "COMERCIO BOM SABOR LTDA", "11222333000181", "COMERCIO BOM SABOR LTDA"))

	id, ok := kb.IdentifierByName("COMERCIO BOM SABOR LTDA", document.RoleRecipient)
	require.True(t, ok)
	require.Equal(t, "11222333000181", id)

	// Lookups are role-scoped.
	_, ok = kb.IdentifierByName("COMERCIO BOM SABOR LTDA", document.RoleEmitter)
	require.False(t, ok)

	name, ok := kb.NameByIdentifier("11222333000181")
	require.True(t, ok)
	require.Equal(t, "COMERCIO BOM SABOR LTDA", name)

	_, ok = kb.NameByIdentifier("99999999999999")
	require.False(t, ok)
}

func TestSQLiteBaseRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.db")

	kb, err := OpenSQLite(path)
	require.NoError(t, err)
	defer kb.Close()

	require.NoError(t, kb.Learn(document.RoleRecipient, "COMERCIO BOM SABOR LTDA", "11222333000181", "COMERCIO BOM SABOR LTDA"))
	require.NoError(t, kb.Learn(document.RoleContractor, "DISTRIBUIDORA CENTRAL SA", "11444777000161", "DISTRIBUIDORA CENTRAL SA"))

	id, ok := kb.IdentifierByName("COMERCIO BOM SABOR LTDA", document.RoleRecipient)
	require.True(t, ok)
	require.Equal(t, "11222333000181", id)

	_, ok = kb.IdentifierByName("COMERCIO BOM SABOR LTDA", document.RoleContractor)
	require.False(t, ok, "lookups must be role-scoped")

	name, ok := kb.NameByIdentifier("11444777000161")
	require.True(t, ok)
	require.Equal(t, "DISTRIBUIDORA CENTRAL SA", name)
}

func TestSQLiteBaseUpsert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.db")

	kb, err := OpenSQLite(path)
	require.NoError(t, err)
	defer kb.Close()

	require.NoError(t, kb.Learn(document.RoleRecipient, "COMERCIO BOM SABOR LTDA", "11222333000181", "COMERCIO BOM SABOR LTDA"))
	// Relearning the same name with a new identifier replaces the old one.
	require.NoError(t, kb.Learn(document.RoleRecipient, "COMERCIO BOM SABOR LTDA", "11444777000161", ""))

	id, ok := kb.IdentifierByName("COMERCIO BOM SABOR LTDA", document.RoleRecipient)
	require.True(t, ok)
	require.Equal(t, "11444777000161", id)

	// The empty relearned name must not clobber the stored one.
	name, ok := kb.NameByIdentifier("11444777000161")
	require.True(t, ok)
	require.Equal(t, "COMERCIO BOM SABOR LTDA", name)
}

func TestSQLiteBasePersistsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.db")

	kb, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, kb.Learn(document.RoleRecipient, "COMERCIO BOM SABOR LTDA", "11222333000181", "COMERCIO BOM SABOR LTDA"))
	require.NoError(t, kb.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	id, ok := reopened.IdentifierByName("COMERCIO BOM SABOR LTDA", document.RoleRecipient)
	require.True(t, ok)
	require.Equal(t, "11222333000181", id)
}

func TestOpenSQLiteEmptyPath(t *testing.T) {
	_, err := OpenSQLite("")
	require.Error(t, err)
}
