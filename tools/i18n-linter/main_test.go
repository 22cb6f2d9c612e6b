package main

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestFlattenYAML(t *testing.T) {
	m := map[string]interface{}{
		"tabs": map[string]interface{}{
			"open_failed": "could not open tab",
			"modes":       []interface{}{"read-only", "editable"},
		},
		"quit": "bye",
	}
	keys := make(map[string]struct{})
	flattenYAML("", m, keys)

	for _, want := range []string{"tabs.open_failed", "tabs.modes[0]", "tabs.modes[1]", "quit"} {
		if _, ok := keys[want]; !ok {
			t.Fatalf("expected flattened key %q, got %v", want, keys)
		}
	}
}

func TestLoadKeysFromLocale(t *testing.T) {
	m := map[string]interface{}{
		"browse": map[string]interface{}{"title": "Browse bucket"},
	}
	data, err := yaml.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	p := filepath.Join(t.TempDir(), "en.yaml")
	if err := os.WriteFile(p, data, 0600); err != nil {
		t.Fatalf("write yaml: %v", err)
	}

	got, err := loadKeysFromLocale(p)
	if err != nil {
		t.Fatalf("loadKeysFromLocale: %v", err)
	}
	if _, ok := got["browse.title"]; !ok {
		t.Fatalf("expected browse.title in loaded keys, got %v", got)
	}
}

func TestFindUsedKeys(t *testing.T) {
	dir := t.TempDir()
	src := `package demo
func g(){
	_ = i18n.T("tabs.confirm_download")
	list := []string{"browse.title"}
	_ = list
}`
	writeGoFile(t, dir, "internal", "demo.go", src)

	// Files under underscore-prefixed trees must be ignored.
	writeGoFile(t, dir, "_vendorlike", "skipped.go", `package x
func h(){ _ = i18n.T("should.not.appear") }`)

	used, err := findUsedKeys(dir)
	if err != nil {
		t.Fatalf("findUsedKeys: %v", err)
	}
	if _, ok := used["tabs.confirm_download"]; !ok {
		t.Fatalf("expected tabs.confirm_download in used keys")
	}
	if _, ok := used["browse.title"]; !ok {
		t.Fatalf("expected bare literal browse.title in used keys")
	}
	if _, ok := used["should.not.appear"]; ok {
		t.Fatalf("keys from underscore-prefixed dirs must be skipped")
	}
}

func TestFindUntranslatedStrings(t *testing.T) {
	dir := t.TempDir()
	src := `package demo
func g(){
	render("Download this file anyway?")
	render("ok")
	fmt.Println("Logged, not user facing")
}`
	writeGoFile(t, dir, "internal", "demo.go", src)

	used := map[string]struct{}{}
	all := map[string]struct{}{"tabs.confirm_download": {}}

	untranslated, err := findUntranslatedStrings(dir, used, all)
	if err != nil {
		t.Fatalf("findUntranslatedStrings: %v", err)
	}
	if _, ok := untranslated["Download this file anyway?"]; !ok {
		t.Fatalf("expected confirmation text to be flagged, got %v", untranslated)
	}
	if _, ok := untranslated["ok"]; ok {
		t.Fatalf("short literal must not be flagged")
	}
	if _, ok := untranslated["Logged, not user facing"]; ok {
		t.Fatalf("blacklisted Println call must not be flagged")
	}
}

func writeGoFile(t *testing.T, root string, sub, name, src string) {
	t.Helper()
	dir := filepath.Join(root, sub)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0644); err != nil {
		t.Fatalf("write go file: %v", err)
	}
}
