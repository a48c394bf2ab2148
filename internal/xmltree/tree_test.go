package xmltree

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<roblox xmlns:xmime="http://www.w3.org/2005/05/xmlmime" xsi:noNamespaceSchemaLocation="http://www.roblox.com/roblox.xsd" version="4">
	<Meta name="ExplicitAutoJoints">true</Meta>
	<External>null</External>
	<Item class="Script" referent="RBX1">
		<Properties>
			<string name="Name">Main</string>
			<ProtectedString name="Source"><![CDATA[print("a & b")
]]></ProtectedString>
		</Properties>
	</Item>
</roblox>`

func TestParse_PreservesStructure(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	assert.Equal(t, "roblox", root.Name)
	v, ok := root.Attr("version")
	assert.True(t, ok)
	assert.Equal(t, "4", v)

	// Prefixed attribute names are kept as written.
	_, ok = root.Attr("xsi:noNamespaceSchemaLocation")
	assert.True(t, ok)
	_, ok = root.Attr("xmlns:xmime")
	assert.True(t, ok)

	require.Len(t, root.Children, 3)
	assert.Equal(t, []string{"Meta", "External", "Item"},
		[]string{root.Children[0].Name, root.Children[1].Name, root.Children[2].Name})
}

func TestParse_SingleChildIsStillAList(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	items := root.ChildrenNamed("Item")
	require.Len(t, items, 1)
	assert.Empty(t, root.ChildrenNamed("Missing"))
	assert.NotNil(t, root.ChildrenNamed("Missing"))
}

func TestParse_CDATAText(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	props := root.FirstChild("Item").FirstChild("Properties")
	require.NotNil(t, props)
	src := props.Children[1]
	text, ok := src.TextContent()
	assert.True(t, ok)
	assert.Equal(t, "print(\"a & b\")\n", text)
}

func TestTextContent(t *testing.T) {
	t.Run("empty leaf carries empty text", func(t *testing.T) {
		el := &Element{Name: "string"}
		text, ok := el.TextContent()
		assert.True(t, ok)
		assert.Equal(t, "", text)
	})

	t.Run("whitespace between children is not text", func(t *testing.T) {
		el := &Element{Name: "CoordinateFrame", Text: "\n\t\t", Children: []*Element{{Name: "X", Text: "0"}}}
		_, ok := el.TextContent()
		assert.False(t, ok)
	})
}

func TestParse_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":          "",
		"syntax":         "<roblox><Item></roblox>",
		"unclosed":       "<roblox><Item>",
		"two roots":      "<a/><b/>",
		"stray text":     "<a/>junk",
		"stray end":      "</a>",
		"only a comment": "<!-- nothing -->",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(body))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformed), "got %v", err)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	root, err := Parse(strings.NewReader(sampleDoc))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, root))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<roblox xmlns:xmime="http://www.w3.org/2005/05/xmlmime" xsi:noNamespaceSchemaLocation=`), out)
	assert.True(t, strings.HasSuffix(out, "</roblox>\n"))
	assert.Contains(t, out, `<string name="Name">Main</string>`)

	again, err := Parse(strings.NewReader(out))
	require.NoError(t, err)
	src, ok := again.FirstChild("Item").FirstChild("Properties").Children[1].TextContent()
	require.True(t, ok)
	assert.Equal(t, "print(\"a & b\")\n", src)
}
