package handle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"creator-os/domain/handle"
)

func TestResolve_EquivalentForms(t *testing.T) {
	inputs := []string{
		"@Jane_Doe",
		"jane_doe",
		"  Jane_Doe  ",
		"https://instagram.com/Jane_Doe/",
		"https://www.instagram.com/jane_doe",
		"http://www.instagram.com/Jane_Doe/?hl=en",
		"www.instagram.com/jane_doe/",
		"instagram.com/Jane_Doe?igsh=MTc4",
		"https://www.instagram.com/jane_doe/reels/",
		"jane_doe/",
		"jane_doe?utm_source=ig",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			id := handle.Resolve(in)
			assert.Equal(t, "jane_doe", id.Handle)
			assert.Equal(t, "https://www.instagram.com/jane_doe/", id.ProfileURL)
		})
	}
}

func TestResolve_DottedHandlesNearDomain(t *testing.T) {
	for in, want := range map[string]string{
		"instagram.comics":       "instagram.comics",
		"Instagram.Commerce_Hub": "instagram.commerce_hub",
		"@instagram.comedy":      "instagram.comedy",
		"jane.doe":               "jane.doe",
		"instagram.com/jane.doe": "jane.doe",
		"instagram.com?x=1":      "",
		"instagram.com#top":      "",
	} {
		assert.Equal(t, want, handle.Resolve(in).Handle, "input %q", in)
	}
}

func TestResolve_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "@", "https://www.instagram.com/", "www.instagram.com", "instagram.com", "instagram.com/"} {
		id := handle.Resolve(in)
		assert.True(t, id.Empty(), "input %q", in)
		assert.Equal(t, "", id.ProfileURL)
	}
}

func TestResolve_UnparsableURLFallsBackToStripping(t *testing.T) {
	id := handle.Resolve("https://instagram.com/bad%zzname/extra")
	assert.Equal(t, "bad%zzname", id.Handle)
}

func TestEqual(t *testing.T) {
	assert.True(t, handle.Equal("@Jane_Doe", "jane_doe"))
	assert.False(t, handle.Equal("", ""))
	assert.False(t, handle.Equal("jane", "john"))
}
