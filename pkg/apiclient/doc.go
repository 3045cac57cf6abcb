// Package apiclient holds the pieces shared by every vendor client in this
// module: configuration, errors, query building, response caching,
// interceptors and pagination.
//
// # Pagination
//
// Most vendors return list endpoints one page at a time. CursorPaginator
// walks the common "has_more plus cursor" shape, where the cursor for the
// next request is the identifier of the last item received:
//
//	paginator := apiclient.NewCursorPaginator(fetchCustomers, "starting_after", logger)
//	customers, err := paginator.FetchAll(ctx, "/v1/customers?limit=100")
//
// fetchCustomers performs one request for the URL it is given and reports
// whether more pages remain. The first request uses the URL unchanged;
// every later one appends the cursor parameter. When the server claims more
// results but no new cursor can be derived, FetchAll stops with
// ErrStalledPagination instead of requesting the same page forever.
//
// CollectTokens and CollectOffset cover APIs that hand back an opaque
// next-page token or expect offset/count parameters.
//
// # Errors
//
// Non-2xx responses are reported as *APIError. IsNotFound, IsUnauthorized,
// IsForbidden and IsConflict branch on common statuses. Vendor packages
// install an ErrorDecoder that fills Code, Type and Message from their error
// envelope.
//
// # Interceptors and caching
//
// InterceptorChain runs request and response hooks around every call
// (logging, static headers, idempotency keys, rate limiting, circuit
// breaking). Cache backends (memory, NATS JetStream KV, Redis) store GET
// responses and let the transport revalidate them with If-None-Match.
package apiclient
