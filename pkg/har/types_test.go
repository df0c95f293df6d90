package har

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeader_HeaderName(t *testing.T) {
	assert.Equal(t, "Accept", Header{Name: "Accept"}.HeaderName())
	assert.Equal(t, "Accept", Header{Key: "Accept"}.HeaderName())
	assert.Equal(t, "Name", Header{Name: "Name", Key: "Key"}.HeaderName())
}

func TestHeaders_Get(t *testing.T) {
	h := Headers{
		{Name: "Content-Type", Value: "text/plain"},
		{Name: "content-type", Value: "application/json"},
	}
	assert.Equal(t, "application/json", h.Get("CONTENT-TYPE"))
	assert.Equal(t, "", h.Get("accept"))
}

func TestRequest_Body(t *testing.T) {
	assert.Equal(t, "", Request{}.Body())
	assert.Equal(t, "a=1", Request{PostData: &PostData{Text: "a=1"}}.Body())
}

func TestContent_Decoded(t *testing.T) {
	plain := Content{Text: `{"ok":true}`}
	got, err := plain.Decoded()
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got)

	encoded := Content{Text: "eyJvayI6dHJ1ZX0=", Encoding: EncodingBase64}
	got, err = encoded.Decoded()
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, got)

	broken := Content{Text: "!!!", Encoding: EncodingBase64}
	_, err = broken.Decoded()
	assert.Error(t, err)
}

func TestEntry_Unmarshal(t *testing.T) {
	raw := `{
		"request": {"method": "POST", "url": "/z", "headers": [{"name": "A", "value": "1"}], "postData": {"text": "hi"}},
		"response": {"status": 201, "headers": [], "content": {"text": "ok"}}
	}`

	var e Entry
	require.NoError(t, json.Unmarshal([]byte(raw), &e))
	assert.Equal(t, "POST", e.Request.Method)
	assert.Equal(t, "hi", e.Request.Body())
	assert.Equal(t, 201, e.Response.Status)
	assert.Equal(t, "/z (POST)", e.Label())
}
