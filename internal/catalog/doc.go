// Package catalog reads scene-group catalogs: TOML files that list the
// groups a SceneLoader can load, in index order.
//
//	[[groups]]
//	name = "forest"
//
//	[[groups.scenes]]
//	path = "Scenes/Forest.unity"
//	role = "ActiveScene"
//
//	[[groups.scenes]]
//	path  = "ui/hud"
//	store = "addressable"
//	role  = "UserInterface"
package catalog
