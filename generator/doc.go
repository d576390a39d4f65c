// Package generator resolves template keys against the vault and writes one
// .env.<environment> file per environment.
//
// Environments are processed sequentially. A vault failure aborts the run,
// while a failure to write one environment's file is reported and the
// remaining environments are still generated.
//
//	gen := generator.New(client, resolver, generator.Options{OutputDir: "."})
//	results, err := gen.Run(ctx, session, "myapp", []string{"dev", "prod"}, keys)
package generator
