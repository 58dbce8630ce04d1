// Package config loads runtime settings with viper.
//
// Sources, lowest precedence first: built-in defaults, an optional YAML file,
// ENTITYCACHE_* environment variables (dots become underscores, so
// ENTITYCACHE_REDIS_KEY_PREFIX sets redis.key_prefix) and explicit overrides.
package config
