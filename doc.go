// Package scenegroup orchestrates loading and unloading groups of scenes in
// a game engine runtime.
//
// A group is an ordered list of scene references, each backed either by the
// engine's built-in ("regular") store or by an addressable content store.
// Loading a group unloads loaded scenes the group does not need, loads the
// missing ones concurrently, reports their combined progress and finally
// promotes the entry tagged ActiveScene.
//
// # Basic Usage
//
//	import "github.com/giantswarm/scenegroup"
//
//	mgr := scenegroup.NewManager(runtime, contentStore)
//	unsubscribe := mgr.Subscribe(func(ev scenegroup.Event) {
//	    log.Printf("%s %s", ev.Kind, ev.Scene)
//	})
//	defer unsubscribe()
//
//	group := scenegroup.Group{Name: "forest", Entries: []scenegroup.Entry{
//	    {Ref: scenegroup.Ref{Path: "Scenes/Forest.unity"}, Role: scenegroup.ActiveScene},
//	    {Ref: scenegroup.Ref{Path: "ui/hud", Kind: scenegroup.Addressable}, Role: scenegroup.HUD},
//	}}
//	progress := scenegroup.ReporterFunc(func(v float64) { bar.Set(v) })
//	if err := mgr.LoadGroup(ctx, group, progress, false); err != nil {
//	    var agg *scenegroup.AggregateError
//	    if errors.As(err, &agg) {
//	        // Some scenes failed; the rest stay loaded.
//	    }
//	}
//
// # Catalogs
//
// A Loader selects groups from a fixed, ordered catalog by index. Indexes
// outside the catalog are logged and ignored, and progress reported through
// a Loader never decreases.
//
// # Parallel Tasks
//
// RunParallel and ParallelTasks run independent tasks concurrently, average
// their progress into one sink and collect every failure into an
// *AggregateError once all tasks have settled.
package scenegroup
