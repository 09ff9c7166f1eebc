package app

import (
	"github.com/vk/shardbotgo/extensions/echo"
	"github.com/vk/shardbotgo/extensions/help"
	"github.com/vk/shardbotgo/extensions/info"
	"github.com/vk/shardbotgo/extensions/ping"
	"github.com/vk/shardbotgo/internal/extension"
)

// coreExtensions maps the built-in extension packages by name. The loader
// only loads the subset whose manifests exist under the extensions path.
func coreExtensions() map[string]extension.Module {
	return map[string]extension.Module{
		"ping": &ping.Module{},
		"echo": &echo.Module{},
		"help": &help.Module{},
		"info": &info.Module{},
	}
}
