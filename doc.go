// Package pgq is a client-side access layer for PostgreSQL: typed statement
// execution, an asynchronous send/receive pipeline, and a managed pool of
// connection-owning workers.
//
// Single connection:
//
//	c, err := conn.Open(ctx, conf.Build().User("app").Dbname("app").Build())
//	if err != nil { ... }
//	defer c.Close(ctx)
//
//	res, err := c.Exec(ctx, command.New("SELECT info FROM t WHERE $1 < id", 1))
//
// Asynchronous receive, row by row:
//
//	rcv, err := c.Iter(ctx, command.New("SELECT id FROM big_table"))
//	if err != nil { ... }
//	defer rcv.Close()
//	for res := rcv.Receive(); !res.IsDone(); res = rcv.Receive() {
//		if res.IsEmpty() {
//			continue // yield boundary, not data
//		}
//		// res.Row(0) ...
//	}
//
// Pool:
//
//	client := pgq.New(pgq.NewContext().
//		Config(conf.Build().User("app").Dbname("app").Build()).
//		MaxConcurrency(4).
//		Build())
//	defer client.Close()
//
//	fut, err := client.Submit(pgq.Exec(command.New("SELECT $1::INT", 42)))
//	if err != nil { ... }
//	res, err := fut.Get(ctx)
package pgq
