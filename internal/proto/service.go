package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	DocumentStore_Ping_FullMethodName           = "/wardminutes.DocumentStore/Ping"
	DocumentStore_Authenticate_FullMethodName   = "/wardminutes.DocumentStore/Authenticate"
	DocumentStore_GetDocument_FullMethodName    = "/wardminutes.DocumentStore/GetDocument"
	DocumentStore_SetDocument_FullMethodName    = "/wardminutes.DocumentStore/SetDocument"
	DocumentStore_ListDocuments_FullMethodName  = "/wardminutes.DocumentStore/ListDocuments"
	DocumentStore_DeleteDocument_FullMethodName = "/wardminutes.DocumentStore/DeleteDocument"
	DocumentStore_PresignBackup_FullMethodName  = "/wardminutes.DocumentStore/PresignBackup"
)

// DocumentStoreClient is the client API for the DocumentStore service.
type DocumentStoreClient interface {
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
	Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*AuthenticateResponse, error)
	GetDocument(ctx context.Context, in *GetDocumentRequest, opts ...grpc.CallOption) (*GetDocumentResponse, error)
	SetDocument(ctx context.Context, in *SetDocumentRequest, opts ...grpc.CallOption) (*SetDocumentResponse, error)
	ListDocuments(ctx context.Context, in *ListDocumentsRequest, opts ...grpc.CallOption) (*ListDocumentsResponse, error)
	DeleteDocument(ctx context.Context, in *DeleteDocumentRequest, opts ...grpc.CallOption) (*DeleteDocumentResponse, error)
	PresignBackup(ctx context.Context, in *PresignBackupRequest, opts ...grpc.CallOption) (*PresignBackupResponse, error)
}

type documentStoreClient struct {
	cc grpc.ClientConnInterface
}

func NewDocumentStoreClient(cc grpc.ClientConnInterface) DocumentStoreClient {
	return &documentStoreClient{cc}
}

func (c *documentStoreClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *documentStoreClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	out := new(PingResponse)
	if err := c.invoke(ctx, DocumentStore_Ping_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) Authenticate(ctx context.Context, in *AuthenticateRequest, opts ...grpc.CallOption) (*AuthenticateResponse, error) {
	out := new(AuthenticateResponse)
	if err := c.invoke(ctx, DocumentStore_Authenticate_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) GetDocument(ctx context.Context, in *GetDocumentRequest, opts ...grpc.CallOption) (*GetDocumentResponse, error) {
	out := new(GetDocumentResponse)
	if err := c.invoke(ctx, DocumentStore_GetDocument_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) SetDocument(ctx context.Context, in *SetDocumentRequest, opts ...grpc.CallOption) (*SetDocumentResponse, error) {
	out := new(SetDocumentResponse)
	if err := c.invoke(ctx, DocumentStore_SetDocument_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) ListDocuments(ctx context.Context, in *ListDocumentsRequest, opts ...grpc.CallOption) (*ListDocumentsResponse, error) {
	out := new(ListDocumentsResponse)
	if err := c.invoke(ctx, DocumentStore_ListDocuments_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) DeleteDocument(ctx context.Context, in *DeleteDocumentRequest, opts ...grpc.CallOption) (*DeleteDocumentResponse, error) {
	out := new(DeleteDocumentResponse)
	if err := c.invoke(ctx, DocumentStore_DeleteDocument_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *documentStoreClient) PresignBackup(ctx context.Context, in *PresignBackupRequest, opts ...grpc.CallOption) (*PresignBackupResponse, error) {
	out := new(PresignBackupResponse)
	if err := c.invoke(ctx, DocumentStore_PresignBackup_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// DocumentStoreServer is the server API for the DocumentStore service.
// Implementations must embed UnimplementedDocumentStoreServer.
type DocumentStoreServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Authenticate(context.Context, *AuthenticateRequest) (*AuthenticateResponse, error)
	GetDocument(context.Context, *GetDocumentRequest) (*GetDocumentResponse, error)
	SetDocument(context.Context, *SetDocumentRequest) (*SetDocumentResponse, error)
	ListDocuments(context.Context, *ListDocumentsRequest) (*ListDocumentsResponse, error)
	DeleteDocument(context.Context, *DeleteDocumentRequest) (*DeleteDocumentResponse, error)
	PresignBackup(context.Context, *PresignBackupRequest) (*PresignBackupResponse, error)
	mustEmbedUnimplementedDocumentStoreServer()
}

type UnimplementedDocumentStoreServer struct{}

func (UnimplementedDocumentStoreServer) Ping(context.Context, *PingRequest) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedDocumentStoreServer) Authenticate(context.Context, *AuthenticateRequest) (*AuthenticateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Authenticate not implemented")
}
func (UnimplementedDocumentStoreServer) GetDocument(context.Context, *GetDocumentRequest) (*GetDocumentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetDocument not implemented")
}
func (UnimplementedDocumentStoreServer) SetDocument(context.Context, *SetDocumentRequest) (*SetDocumentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SetDocument not implemented")
}
func (UnimplementedDocumentStoreServer) ListDocuments(context.Context, *ListDocumentsRequest) (*ListDocumentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListDocuments not implemented")
}
func (UnimplementedDocumentStoreServer) DeleteDocument(context.Context, *DeleteDocumentRequest) (*DeleteDocumentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteDocument not implemented")
}
func (UnimplementedDocumentStoreServer) PresignBackup(context.Context, *PresignBackupRequest) (*PresignBackupResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PresignBackup not implemented")
}
func (UnimplementedDocumentStoreServer) mustEmbedUnimplementedDocumentStoreServer() {}

func RegisterDocumentStoreServer(s grpc.ServiceRegistrar, srv DocumentStoreServer) {
	s.RegisterService(&DocumentStore_ServiceDesc, srv)
}

func unaryHandler[Req any](
	method string,
	call func(srv DocumentStoreServer, ctx context.Context, in *Req) (any, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DocumentStoreServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DocumentStoreServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// DocumentStore_ServiceDesc is the grpc.ServiceDesc for the DocumentStore service.
var DocumentStore_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "wardminutes.DocumentStore",
	HandlerType: (*DocumentStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Ping",
			Handler: unaryHandler(DocumentStore_Ping_FullMethodName, func(s DocumentStoreServer, ctx context.Context, in *PingRequest) (any, error) {
				return s.Ping(ctx, in)
			}),
		},
		{
			MethodName: "Authenticate",
			Handler: unaryHandler(DocumentStore_Authenticate_FullMethodName, func(s DocumentStoreServer, ctx context.Context, in *AuthenticateRequest) (any, error) {
				return s.Authenticate(ctx, in)
			}),
		},
		{
			MethodName: "GetDocument",
			Handler: unaryHandler(DocumentStore_GetDocument_FullMethodName, func(s DocumentStoreServer, ctx context.Context, in *GetDocumentRequest) (any, error) {
				return s.GetDocument(ctx, in)
			}),
		},
		{
			MethodName: "SetDocument",
			Handler: unaryHandler(DocumentStore_SetDocument_FullMethodName, func(s DocumentStoreServer, ctx context.Context, in *SetDocumentRequest) (any, error) {
				return s.SetDocument(ctx, in)
			}),
		},
		{
			MethodName: "ListDocuments",
			Handler: unaryHandler(DocumentStore_ListDocuments_FullMethodName, func(s DocumentStoreServer, ctx context.Context, in *ListDocumentsRequest) (any, error) {
				return s.ListDocuments(ctx, in)
			}),
		},
		{
			MethodName: "DeleteDocument",
			Handler: unaryHandler(DocumentStore_DeleteDocument_FullMethodName, func(s DocumentStoreServer, ctx context.Context, in *DeleteDocumentRequest) (any, error) {
				return s.DeleteDocument(ctx, in)
			}),
		},
		{
			MethodName: "PresignBackup",
			Handler: unaryHandler(DocumentStore_PresignBackup_FullMethodName, func(s DocumentStoreServer, ctx context.Context, in *PresignBackupRequest) (any, error) {
				return s.PresignBackup(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wardminutes/document_store",
}
