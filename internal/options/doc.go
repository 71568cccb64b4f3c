// Package options loads the library options file.
//
// The file is TOML. Each [[library]] block claims one or more root paths
// and routes a content type to everything underneath them:
//
//	case_sensitive_ids = false
//	ignore_globs = ["*.partial~"]
//
//	[[library]]
//	name = "Movies"
//	paths = ["/media/movies"]
//	content_type = "movies"
//
//	[[library]]
//	name = "Shows"
//	paths = ["/media/tv"]
//	content_type = "tvshows"
//	absolute_episode_numbers = true
//
// A missing options file is not an error; everything then resolves as
// mixed content.
package options
