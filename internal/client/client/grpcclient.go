package client

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dmitrijs2005/zeroos/internal/client/identity"
	"github.com/dmitrijs2005/zeroos/internal/client/models"
	"github.com/dmitrijs2005/zeroos/internal/common"
	"github.com/dmitrijs2005/zeroos/internal/logging"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// conn is the part of *grpc.ClientConn the gateway uses.
type conn interface {
	grpc.ClientConnInterface
	Close() error
}

// Options configures NewGRPCClient.
type Options struct {
	Endpoint    string
	CanisterID  string
	Production  bool
	CallTimeout time.Duration
	Identity    *identity.Identity
	Logger      logging.Logger
	DialOptions []grpc.DialOption
}

// GRPCClient is the gateway to the workspace service for one authenticated
// session.
type GRPCClient struct {
	endpointURL string
	canisterID  string
	callTimeout time.Duration
	identity    *identity.Identity
	rootKey     []byte
	conn        conn
	log         logging.Logger
}

var _ Client = (*GRPCClient)(nil)

// NewGRPCClient validates opts, opens the channel and, off production, runs
// the root key bootstrap before returning.
func NewGRPCClient(ctx context.Context, opts Options) (*GRPCClient, error) {
	if opts.CanisterID == "" {
		return nil, fmt.Errorf("%w: backend canister id not found", ErrConfiguration)
	}
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("%w: service endpoint not set", ErrConfiguration)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	c := &GRPCClient{
		endpointURL: opts.Endpoint,
		canisterID:  opts.CanisterID,
		callTimeout: opts.CallTimeout,
		identity:    opts.Identity,
		log:         opts.Logger.With("component", "gateway"),
	}

	if err := c.InitGRPCClient(opts.Production, opts.DialOptions...); err != nil {
		return nil, err
	}

	if !opts.Production {
		if err := c.fetchRootKey(ctx); err != nil {
			_ = c.conn.Close()
			return nil, fmt.Errorf("root key bootstrap: %w", err)
		}
	}

	return c, nil
}

func (c *GRPCClient) InitGRPCClient(production bool, extra ...grpc.DialOption) error {
	creds := insecure.NewCredentials()
	if production {
		creds = credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithUnaryInterceptor(c.identityInterceptor),
	}, extra...)

	cc, err := grpc.NewClient(c.endpointURL, opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	c.conn = cc
	return nil
}

func withCallMetadata(ctx context.Context, kv ...string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	for i := 0; i+1 < len(kv); i += 2 {
		md.Set(kv[i], kv[i+1])
	}
	return metadata.NewOutgoingContext(ctx, md)
}

// identityInterceptor stamps every call with the canister id, a request id,
// and the caller's principal and signature, and bounds it by callTimeout.
func (c *GRPCClient) identityInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	requestID := uuid.NewString()
	kv := []string{
		common.CanisterIDHeaderName, c.canisterID,
		common.RequestIDHeaderName, requestID,
	}

	if id := c.identity; id != nil {
		sig := id.Sign([]byte(method + "\n" + requestID))
		kv = append(kv,
			common.PrincipalHeaderName, id.Principal(),
			common.SignatureHeaderName, base64.StdEncoding.EncodeToString(sig),
		)
		if d := id.Delegation(); d != "" {
			kv = append(kv, common.DelegationHeaderName, d)
		}
	}

	ctx = withCallMetadata(ctx, kv...)

	if c.callTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.callTimeout)
		defer cancel()
	}

	start := time.Now()
	err := invoker(ctx, method, req, reply, cc, opts...)
	c.log.Debug(ctx, "call", "method", method, "request_id", requestID, "elapsed", time.Since(start), "err", err)
	return err
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (c *GRPCClient) invoke(ctx context.Context, method string, req, resp any) error {
	err := c.conn.Invoke(ctx, FullMethod(method), req, resp, grpc.CallContentSubtype(codecName))
	return c.mapError(err)
}

// invokeResult calls a method whose reply is a result[T] and unwraps it.
func invokeResult[T any](ctx context.Context, c *GRPCClient, method string, req any) (T, error) {
	var r result[T]
	if err := c.invoke(ctx, method, req, &r); err != nil {
		var zero T
		return zero, err
	}
	return r.unwrap(method)
}

func (c *GRPCClient) fetchRootKey(ctx context.Context) error {
	var key wrapperspb.BytesValue
	if err := c.invoke(ctx, MethodRootKey, &emptypb.Empty{}, &key); err != nil {
		return err
	}
	if len(key.GetValue()) == 0 {
		return fmt.Errorf("%w: empty root key", ErrUnavailable)
	}
	c.rootKey = key.GetValue()
	return nil
}

// RootKey returns the key fetched during bootstrap (nil in production).
func (c *GRPCClient) RootKey() []byte {
	return c.rootKey
}

// Principal returns the principal calls are issued as.
func (c *GRPCClient) Principal() string {
	if c.identity == nil {
		return ""
	}
	return c.identity.Principal()
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// Ping runs a gRPC health check against the workspace service.
func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return c.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) ListFiles(ctx context.Context, folderID string) ([]models.FileEntry, error) {
	var files []models.FileEntry
	if err := c.invoke(ctx, MethodListFiles, &ListFilesRequest{FolderID: optional(folderID)}, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (c *GRPCClient) CreateFolder(ctx context.Context, name string, parent string) (models.FileEntry, error) {
	req := &CreateFolderRequest{Name: name, ParentFolder: optional(parent)}
	return invokeResult[models.FileEntry](ctx, c, MethodCreateFolder, req)
}

func (c *GRPCClient) UploadFileChunk(ctx context.Context, chunk ChunkUpload) error {
	req := &UploadFileChunkRequest{
		FileID:       chunk.FileID,
		ChunkIndex:   uint32(chunk.Index),
		Data:         chunk.Data,
		FileName:     chunk.Name,
		FileType:     chunk.MediaType,
		TotalSize:    chunk.TotalSize,
		ParentFolder: optional(chunk.Parent),
	}
	_, err := invokeResult[string](ctx, c, MethodUploadFileChunk, req)
	return err
}

func (c *GRPCClient) GetFileInfo(ctx context.Context, fileID string) (models.FileEntry, error) {
	return invokeResult[models.FileEntry](ctx, c, MethodGetFileInfo, &FileIDRequest{FileID: fileID})
}

func (c *GRPCClient) GetFileChunk(ctx context.Context, chunkID string) ([]byte, error) {
	p, err := invokeResult[ChunkPayload](ctx, c, MethodGetFileChunk, &ChunkIDRequest{ChunkID: chunkID})
	if err != nil {
		return nil, err
	}
	return p.Data, nil
}

func (c *GRPCClient) DeleteFile(ctx context.Context, fileID string) error {
	_, err := invokeResult[empty](ctx, c, MethodDeleteFile, &FileIDRequest{FileID: fileID})
	return err
}

func (c *GRPCClient) GetNotes(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := c.invoke(ctx, MethodGetNotes, &empty{}, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *GRPCClient) CreateNote(ctx context.Context, title, content string, tags []string) (models.Note, error) {
	req := &NoteRequest{Title: title, Content: content, Tags: tags}
	return invokeResult[models.Note](ctx, c, MethodCreateNote, req)
}

func (c *GRPCClient) UpdateNote(ctx context.Context, id, title, content string, tags []string) (models.Note, error) {
	req := &NoteRequest{ID: id, Title: title, Content: content, Tags: tags}
	return invokeResult[models.Note](ctx, c, MethodUpdateNote, req)
}

func (c *GRPCClient) DeleteNote(ctx context.Context, id string) error {
	_, err := invokeResult[empty](ctx, c, MethodDeleteNote, &IDRequest{ID: id})
	return err
}

func (c *GRPCClient) GetTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.invoke(ctx, MethodGetTasks, &empty{}, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *GRPCClient) CreateTask(ctx context.Context, title, description string, due *uint64, priority models.Priority) (models.Task, error) {
	req := &TaskRequest{Title: title, Description: description, DueDate: due, Priority: priority}
	return invokeResult[models.Task](ctx, c, MethodCreateTask, req)
}

func (c *GRPCClient) UpdateTask(ctx context.Context, id, title, description string, completed bool, due *uint64, priority models.Priority) (models.Task, error) {
	req := &TaskRequest{ID: id, Title: title, Description: description, Completed: &completed, DueDate: due, Priority: priority}
	return invokeResult[models.Task](ctx, c, MethodUpdateTask, req)
}

func (c *GRPCClient) DeleteTask(ctx context.Context, id string) error {
	_, err := invokeResult[empty](ctx, c, MethodDeleteTask, &IDRequest{ID: id})
	return err
}

func (c *GRPCClient) GetUserStorageInfo(ctx context.Context) (models.StorageInfo, error) {
	info := models.StorageInfo{}
	if err := c.invoke(ctx, MethodGetUserStorageInfo, &empty{}, &info); err != nil {
		return nil, err
	}
	return info, nil
}
