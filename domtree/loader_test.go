package domtree

import "testing"

func TestLoadFromDataURLPlain(t *testing.T) {
	b, err := loadFromDataURL("data:text/plain,Hello%2C%20World%21")
	if err != nil {
		t.Fatalf("loadFromDataURL: %v", err)
	}
	if got := string(b); got != "Hello, World!" {
		t.Errorf("got %q, want %q", got, "Hello, World!")
	}
}

func TestLoadFromDataURLBase64(t *testing.T) {
	// base64 of "Hello, World!"
	b, err := loadFromDataURL("data:text/plain;base64,SGVsbG8sIFdvcmxkIQ==")
	if err != nil {
		t.Fatalf("loadFromDataURL: %v", err)
	}
	if got := string(b); got != "Hello, World!" {
		t.Errorf("got %q, want %q", got, "Hello, World!")
	}
}

func TestLoadFromDataURLMissingComma(t *testing.T) {
	if _, err := loadFromDataURL("data:text/plain;base64"); err == nil {
		t.Error("expected an error for a data URL with no comma")
	}
}

func TestLoadRejectsNonDataScheme(t *testing.T) {
	if _, err := loadFromDataURL("http://example.com"); err == nil {
		t.Error("expected an error when scheme isn't data:")
	}
}

func TestResourceLoaderDispatchesByScheme(t *testing.T) {
	rl := NewResourceLoader("")
	b, err := rl.Load("data:text/plain,hi")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(b) != "hi" {
		t.Errorf("got %q, want %q", string(b), "hi")
	}
}
