package handler

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// CodecName は本サービスの content-subtype です。クライアントは
// grpc.CallContentSubtype(CodecName) を指定して呼び出します。
const CodecName = "json"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec はメッセージを JSON でシリアライズする gRPC コーデックです。
// protobuf スキーマを持たないハンドラ層のメッセージ型をそのまま扱えます。
type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return CodecName
}
