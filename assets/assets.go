// Package assets bundles the default Japanese transform descriptor so
// the CLI has something to deinflect against without requiring a
// caller-supplied file.
package assets

import _ "embed"

//go:embed ja/transforms.json
var JapaneseDescriptor []byte
