// Package logger provides a singleton Zap logger with context-based scoping.
//
//   - Singleton: una sola instancia global inicializada con Init().
//   - Context scoping: cada request lleva su logger "scoped" con campos
//     adicionales (request_id, subject_id) sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
// En controllers/services (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("profile merged", logger.SubjectID(uid))
package logger
