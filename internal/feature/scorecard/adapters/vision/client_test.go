package vision

import (
	"testing"

	visionpb "cloud.google.com/go/vision/v2/apiv1/visionpb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/status"
)

func TestBestLogo(t *testing.T) {
	tests := []struct {
		name    string
		resp    *visionpb.BatchAnnotateFilesResponse
		want    string
		wantErr string
	}{
		{
			name: "highest score above threshold",
			resp: &visionpb.BatchAnnotateFilesResponse{Responses: []*visionpb.AnnotateFileResponse{{
				Responses: []*visionpb.AnnotateImageResponse{{
					LogoAnnotations: []*visionpb.EntityAnnotation{
						{Description: "Azimut", Score: 0.62},
						{Description: "Acme", Score: 0.91},
					},
				}},
			}}},
			want: "Acme",
		},
		{
			name: "below threshold",
			resp: &visionpb.BatchAnnotateFilesResponse{Responses: []*visionpb.AnnotateFileResponse{{
				Responses: []*visionpb.AnnotateImageResponse{{
					LogoAnnotations: []*visionpb.EntityAnnotation{{Description: "Acme", Score: 0.2}},
				}},
			}}},
			want: "",
		},
		{
			name: "empty response",
			resp: &visionpb.BatchAnnotateFilesResponse{},
			want: "",
		},
		{
			name: "file level error",
			resp: &visionpb.BatchAnnotateFilesResponse{Responses: []*visionpb.AnnotateFileResponse{{
				Error: &status.Status{Message: "bad pdf"},
			}}},
			wantErr: "bad pdf",
		},
		{
			name: "page level error",
			resp: &visionpb.BatchAnnotateFilesResponse{Responses: []*visionpb.AnnotateFileResponse{{
				Responses: []*visionpb.AnnotateImageResponse{{Error: &status.Status{Message: "page failed"}}},
			}}},
			wantErr: "page failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BestLogo(tt.resp, MinLogoConfidence)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
