package cie

// Raw illuminant spectral power distributions on the 5nm grid, in the
// conventional scale where the value at 560nm is 100 (1.0 for E). The
// normalization divisors are the curves' tristimulus integrals; dividing
// through in init keeps the quadrature whitepoint at unit luminance.
const (
	d65Integral = 10566.864005283874576
	d50Integral = 10503.2
	d60Integral = 10536.3
	eIntegral   = 106.8
)

var rawD65 = [Samples]float64{
	46.6383, 49.3637, 52.0891, 51.0323, 49.9755,
	52.3118, 54.6482, 68.7015, 82.7549, 87.1204,
	91.486, 92.4589, 93.4318, 90.057, 86.6823,
	95.7736, 104.865, 110.936, 117.008, 117.41,
	117.812, 116.336, 114.861, 115.392, 115.923,
	112.367, 108.811, 109.082, 109.354, 108.578,
	107.802, 106.296, 104.79, 106.239, 107.689,
	106.047, 104.405, 104.225, 104.046, 102.023,
	100.0, 98.1671, 96.3342, 96.0611, 95.788,
	92.2368, 88.6856, 89.3459, 90.0062, 89.8026,
	89.5991, 88.6489, 87.6987, 85.4936, 83.2886,
	83.4939, 83.6992, 81.863, 80.0268, 80.1207,
	80.2146, 81.2462, 82.2778, 80.281, 78.2842,
	74.0027, 69.7213, 70.6652, 71.6091, 72.979,
	74.349, 67.9765, 61.604, 65.7448, 69.8856,
	72.4863, 75.087, 69.3398, 63.5927, 55.0054,
	46.4182, 56.6118, 66.8054, 65.0941, 63.3828,
	63.8434, 64.304, 61.8779, 59.4519, 55.7054,
	51.959, 54.6998, 57.4406, 58.8765, 60.3125,
}

var rawD50 = [Samples]float64{
	23.942000, 25.451000, 26.961000, 25.724000, 24.488000,
	27.179000, 29.871000, 39.589000, 49.308000, 52.910000,
	56.513000, 58.273000, 60.034000, 58.926000, 57.818000,
	66.321000, 74.825000, 81.036000, 87.247000, 88.930000,
	90.612000, 90.990000, 91.368000, 93.238000, 95.109000,
	93.536000, 91.963000, 93.843000, 95.724000, 96.169000,
	96.613000, 96.871000, 97.129000, 99.614000, 102.099000,
	101.427000, 100.755000, 101.536000, 102.317000, 101.159000,
	100.000000, 98.868000, 97.735000, 98.327000, 98.918000,
	96.208000, 93.499000, 95.593000, 97.688000, 98.478000,
	99.269000, 99.155000, 99.042000, 97.382000, 95.722000,
	97.290000, 98.857000, 97.262000, 95.667000, 96.929000,
	98.190000, 100.597000, 103.003000, 101.068000, 99.133000,
	93.257000, 87.381000, 89.492000, 91.604000, 92.246000,
	92.889000, 84.872000, 76.854000, 81.683000, 86.511000,
	89.546000, 92.580000, 85.405000, 78.230000, 67.961000,
	57.692000, 70.307000, 82.923000, 80.599000, 78.274000,
	0.0, 0.0, 0.0, 0.0, 0.0,
	0.0, 0.0, 0.0, 0.0, 0.0,
}

var rawD60 = [Samples]float64{
	38.683115, 41.014457, 42.717548, 42.264182, 41.454941,
	41.763698, 46.605319, 59.226938, 72.278594, 78.231500,
	80.440600, 82.739580, 82.915027, 79.009168, 77.676264,
	85.163609, 95.681274, 103.267764, 107.954821, 109.777964,
	109.559187, 108.418402, 107.758141, 109.071548, 109.671404,
	106.734741, 103.707873, 103.981942, 105.232199, 105.235867,
	104.427667, 103.052881, 102.522934, 104.371416, 106.052671,
	104.948900, 103.315154, 103.416286, 103.538599, 102.099304,
	100.000000, 97.992725, 96.751421, 97.102402, 96.712823,
	93.174457, 89.921479, 90.351933, 91.999793, 92.384009,
	92.098710, 91.722859, 90.646003, 88.327552, 86.526483,
	87.034239, 87.579186, 85.884584, 83.976140, 83.743140,
	84.724074, 86.450818, 87.493491, 86.546330, 83.483070,
	78.268785, 74.172451, 74.275184, 76.620385, 79.423856,
	79.051849, 71.763360, 65.471371, 67.984085, 74.106079,
	78.556612, 79.527120, 75.584935, 67.307163, 55.275106,
	49.273538, 59.008629, 70.892412, 70.950115, 67.163996,
	67.445480, 68.171371, 66.466636, 62.989809, 58.067786,
	54.990892, 56.915942, 60.825601, 62.987850, 0.0,
}

// D65, D50, D60 and E are the normalized standard illuminants.
var (
	D65 [Samples]float64
	D50 [Samples]float64
	D60 [Samples]float64
	E   [Samples]float64
)

func init() {
	for i := 0; i < Samples; i++ {
		D65[i] = rawD65[i] / d65Integral
		D50[i] = rawD50[i] / d50Integral
		D60[i] = rawD60[i] / d60Integral
		E[i] = 1.0 / eIntegral
	}
}
