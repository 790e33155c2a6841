// Package scaffoldenv provides end-to-end test support for websauna
// applications: running commands, temporary databases, scoped file edits,
// a project scaffold built once per test binary, and a development server
// launcher.
//
// # Scaffold
//
// A Scaffold is a temporary folder holding a virtualenv with the framework
// installed and an application generated from the cookiecutter template.
// Building one takes minutes, so there is a single Scaffold per process:
//
//	var scaffold scaffoldenv.Scaffold
//
//	func TestMain(m *testing.M) {
//	    scaffold = scaffoldenv.NewScaffold(scaffoldenv.WithFrameworkDir("../.."))
//	    if err := scaffold.Initialize(context.Background()); err != nil {
//	        log.Fatal(err)
//	    }
//	    code := m.Run()
//	    _ = scaffold.Shutdown()
//	    os.Exit(code)
//	}
//
//	func TestPserve(t *testing.T) {
//	    ctx := context.Background()
//	    _, err := scaffold.Exec(ctx, "ws-sync-db my.app/development.ini",
//	        scaffoldenv.WithTimeout(time.Minute))
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    srv, err := scaffold.StartServer(ctx, "ws-pserve my.app/development.ini")
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer srv.Stop()
//	    // Talk to http://localhost:6543
//	}
//
// # Databases
//
// CreateDatabase creates a Postgres database for one test and drops it in
// t.Cleanup. A stale database of the same name is dropped first:
//
//	db := scaffoldenv.CreateDatabase(t, scaffoldenv.UniqueDatabaseName("myapp_test"))
//	// db.URL is ready for sqlalchemy.url
//
// # Environment
//
// Defaults can be overridden with SCAFFOLDENV_* variables, or with a .env
// file in the working directory: SCAFFOLDENV_POSTGRES_DSN,
// SCAFFOLDENV_PYTHON, SCAFFOLDENV_TEMPLATE, SCAFFOLDENV_FRAMEWORK_DIR,
// SCAFFOLDENV_SERVER_PORT and SCAFFOLDENV_KEEP_FOLDER. Options passed in
// code win over the environment.
package scaffoldenv
