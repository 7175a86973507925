// Package script embeds Lua (gopher-lua) scripting into an editing session.
//
// Scripts see a preloaded "geoedit" module, also set as a global:
//
//	local id = geoedit.start_polyline()
//	geoedit.on("editable.vertex.*", function(ev)
//	    print(ev.type, ev.layer, ev.lat, ev.lng)
//	end)
//	geoedit.click(0, 0)
//	geoedit.click(1, 1)
//	geoedit.click(1, 1)
//	local coords = geoedit.coords(id)
//
// geoedit.on and geoedit.once take an optional feature or group ID as a
// third argument to scope the hook; geoedit.pause and geoedit.resume mute a
// hook without removing it.
//
// Hooks registered with geoedit.on run synchronously on the goroutine that
// fires the notification. An Engine is not goroutine-safe; the application
// loop owns it.
//
// The sandbox opens only the base, table, string and math libraries, removes
// dofile, loadfile, load and loadstring, and restricts require to the safe
// built-ins and "geoedit".
package script
