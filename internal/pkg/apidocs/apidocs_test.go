package apidocs

import "testing"

func TestPublishedDocumentIsValid(t *testing.T) {
	if err := Validate("../../../public/docs/v1/openapi.yml"); err != nil {
		t.Fatalf("published openapi document invalid: %v", err)
	}
}

func TestValidateMissingFile(t *testing.T) {
	if err := Validate("testdata/does-not-exist.yml"); err == nil {
		t.Fatal("expected error for missing document")
	}
}
