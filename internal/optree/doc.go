// Package optree builds the options tree for a job list and extracts a chain
// from it. For every reachable point in time the builder enumerates the jobs
// that may legally follow, recursively explores their own follow-on options,
// and caches on each node the accumulated profit of the continuation it
// selected. The selector then walks those cached pointers from the best root.
//
// Selection is by the immediate job's profit unless a Builder is configured
// with SelectTotalProfit. The fan-out of each node is bounded to candidates
// starting no later than the earliest candidate end time, so the search is a
// heuristic, not an exhaustive weighted interval scheduling solver.
package optree
