package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFileName(t *testing.T) {
	assert.Equal(t, "Foo__test_bar.snap", FileName("Foo__test_bar", ""))
	assert.Equal(t, "Foo__test_bar.snap.json", FileName("Foo__test_bar", "json"))
	assert.Equal(t, "Foo.snap.pb.json", FileName("Foo", "pb.json"))
}

func TestParseName(t *testing.T) {
	tests := []struct {
		testName string
		name     string
		want     NameInfo
		wantErr  bool
	}{
		{
			"roundtrip",
			FileName("Foo__test_bar", "json"),
			NameInfo{
				FullName:  "Foo__test_bar.snap.json",
				ID:        "Foo__test_bar",
				Extension: "json",
			},
			false,
		},
		{
			"no-extension",
			"TestFoo.snap",
			NameInfo{
				FullName: "TestFoo.snap",
				ID:       "TestFoo",
			},
			false,
		},
		{
			"multi-part-extension",
			"TestFoo.snap.json.xxh64",
			NameInfo{
				FullName:  "TestFoo.snap.json.xxh64",
				ID:        "TestFoo",
				Extension: "json.xxh64",
			},
			false,
		},
		{
			"snap-in-id",
			"TestV.snap.snap.yaml",
			NameInfo{
				FullName:  "TestV.snap.snap.yaml",
				ID:        "TestV.snap",
				Extension: "yaml",
			},
			false,
		},
		{
			"invalid",
			"invalid",
			NameInfo{},
			true,
		},
		{
			"no-id",
			".snap.json",
			NameInfo{},
			true,
		},
		{
			"invalid-ext",
			"TestFoo.snapjson",
			NameInfo{},
			true,
		},
		{
			"empty-ext",
			"TestFoo.snap.",
			NameInfo{},
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.testName, func(t *testing.T) {
			got, err := ParseName(tt.name)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseName() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"TestFoo", "TestFoo"},
		{"TestFoo/bar", "TestFoo__bar"},
		{"Foo/test bar", "Foo__test_bar"},
		{"Foo/test_bar", "Foo__test_bar"},
		{"TestFoo/bar/#01", "TestFoo__bar__%2301"},
		{"TestFoo/v1.2", "TestFoo__v1.2"},
		{"TestFoo/a:b", "TestFoo__a%3Ab"},
		{"TestFoo/a%3Ab", "TestFoo__a%253Ab"},
		{"TestFoo/a__b", "TestFoo__a%5F%5Fb"},
		{"TestFoo/_b", "TestFoo__%5Fb"},
		{"Test_foo", "Test_foo"},
		{".hidden", "%2Ehidden"},
		{"TestFoo/ünicode", "TestFoo__%C3%BCnicode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := SanitizeID(tt.name)
			assert.Equal(t, tt.want, id)
			assert.NoError(t, ValidateID(id))
		})
	}
}

func TestSanitizeID_Distinct(t *testing.T) {
	// Names the testing package can produce, including ones that only
	// differ in characters that need escaping
	names := []string{
		"TestFoo",
		"TestFoo/2",
		"TestFoo/a/b",
		"TestFoo/a__b",
		"TestFoo/a_/b",
		"TestFoo/a/_b",
		"TestFoo/a:b",
		"TestFoo/a_b",
		"TestFoo/a%3Ab",
		"TestFoo/a#01",
		"TestFoo//",
		"TestFoo/_",
		"TestFoo/__",
	}
	seen := make(map[string]string)
	for _, name := range names {
		id := SanitizeID(name)
		if other, exists := seen[id]; exists {
			t.Errorf("%q and %q both map to %q", name, other, id)
		}
		seen[id] = name
	}
}

func TestSanitizeID_Injective(t *testing.T) {
	alphabet := []rune{'a', 'B', '1', '_', '/', '.', '-', ':', '#', '%', 'ü'}
	rapid.Check(t, func(t *rapid.T) {
		a := rapid.StringOfN(rapid.SampledFrom(alphabet), 1, 8, -1).Draw(t, "a")
		b := rapid.StringOfN(rapid.SampledFrom(alphabet), 1, 8, -1).Draw(t, "b")
		if a != b && SanitizeID(a) == SanitizeID(b) {
			t.Fatalf("%q and %q both map to %q", a, b, SanitizeID(a))
		}
	})
}

func TestWithCounter(t *testing.T) {
	assert.Equal(t, "TestFoo", WithCounter("TestFoo", 1))
	assert.Equal(t, "TestFoo#2", WithCounter("TestFoo", 2))
	assert.NotEqual(t, SanitizeID("TestFoo/2"), WithCounter(SanitizeID("TestFoo"), 2))
	assert.Error(t, ValidateID(WithCounter("TestFoo", 2)))
}

func TestValidateID(t *testing.T) {
	for _, id := range []string{"custom", "TestFoo__bar", "v1.2-rc_1", "a%3Ab"} {
		assert.NoError(t, ValidateID(id), id)
	}
	for _, id := range []string{"", "a/b", ".hidden", "a b", "a#2", "a:b", "ü"} {
		assert.Error(t, ValidateID(id), id)
	}
}
