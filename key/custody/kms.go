package custody

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/kms/types"
	"github.com/pkg/errors"
)

// kmsAPI is the subset of *kms.Client used here.
type kmsAPI interface {
	GetPublicKey(ctx context.Context, params *kms.GetPublicKeyInput, optFns ...func(*kms.Options)) (*kms.GetPublicKeyOutput, error)
	Sign(ctx context.Context, params *kms.SignInput, optFns ...func(*kms.Options)) (*kms.SignOutput, error)
}

// KMSClient talks to AWS KMS asymmetric ECC_SECG_P256K1 keys.
type KMSClient struct {
	api kmsAPI
}

var _ Client = (*KMSClient)(nil)

// NewKMSClient loads credentials from the default AWS chain. A non-empty
// endpoint overrides the service URL (localstack, VPC endpoints).
func NewKMSClient(ctx context.Context, region, endpoint string) (*KMSClient, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}

	client := kms.NewFromConfig(cfg, func(o *kms.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return &KMSClient{api: client}, nil
}

func (c *KMSClient) GetPublicKey(ctx context.Context, keyID string) ([]byte, error) {
	out, err := c.api.GetPublicKey(ctx, &kms.GetPublicKeyInput{KeyId: aws.String(keyID)})
	if err != nil {
		return nil, err
	}
	if out.KeySpec != types.KeySpecEccSecgP256k1 {
		return nil, errors.Errorf("key %s has spec %s, want %s", keyID, out.KeySpec, types.KeySpecEccSecgP256k1)
	}
	return out.PublicKey, nil
}

func (c *KMSClient) Sign(ctx context.Context, keyID string, digest []byte) ([]byte, error) {
	out, err := c.api.Sign(ctx, &kms.SignInput{
		KeyId:            aws.String(keyID),
		Message:          digest,
		MessageType:      types.MessageTypeDigest,
		SigningAlgorithm: types.SigningAlgorithmSpecEcdsaSha256,
	})
	if err != nil {
		return nil, err
	}
	return out.Signature, nil
}
