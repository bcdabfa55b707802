package main

import "testing"

func TestBuildMetadataDefaults(t *testing.T) {
	if version == "" {
		t.Error("version should not be empty")
	}
	if commit == "" {
		t.Error("commit should not be empty")
	}
	if date == "" {
		t.Error("date should not be empty")
	}
	if goVersion == "" {
		t.Error("goVersion should not be empty")
	}
}
