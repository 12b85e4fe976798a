/*
Package dig reads IPv4 addresses from line-oriented input and digs up their DNS
names via reverse (PTR) lookups.

[ScanKeys] reads the addresses, one per line, reporting and skipping any line
not containing an IPv4 address. A [Digger] then feeds the addresses into a
[pool.Pool] of workers, which resolve them and cache the results. Only after
[Digger.StopWait] returned are the results complete.

	digger, _ := dig.New(4, 10, resolver.LookupAddr)
	counts, err := digger.DigFile(ctx, "addresses.txt")
	digger.StopWait()
	for _, res := range digger.Results() {
		fmt.Println(res.Address, res.Name)
	}
*/
package dig
